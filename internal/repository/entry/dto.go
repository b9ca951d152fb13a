package entry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bayanapps/dalil/internal/db"
	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/metadata"
	"github.com/bayanapps/dalil/internal/domain/search"
)

// Hash field names of a catalog entry. TAG and NUMERIC fields appear in the
// FT index schema; the rest are plain stored fields.
const (
	fieldNameEN      = "name_en"
	fieldNameAR      = "name_ar"
	fieldShortDescEN = "short_desc_en"
	fieldShortDescAR = "short_desc_ar"
	fieldDescEN      = "desc_en"
	fieldDescAR      = "desc_ar"
	fieldCategories  = "categories"
	fieldDeveloperEN = "developer_en"
	fieldDeveloperAR = "developer_ar"
	fieldDevVerified = "developer_verified"
	fieldPlatform    = "platform"
	fieldStores      = "stores"
	fieldRating      = "rating"
	fieldReviewCount = "review_count"
	fieldViewCount   = "view_count"
	fieldFeatured    = "featured"
	fieldStatus      = "status"
	fieldEmbedding   = "embedding"
	fieldEnrichText  = "enriched_text"
	fieldEnrichAt    = "enriched_at"

	listingFieldPrefix = "listing:"
)

// entryToFields flattens a domain entry into hash fields. The embedding and
// enrichment fields are intentionally absent: they are written only through
// SaveEmbedding / SaveEnrichment.
func entryToFields(e *domain.Entry) map[string]string {
	fields := map[string]string{
		fieldNameEN:      e.NameEN,
		fieldNameAR:      e.NameAR,
		fieldShortDescEN: e.ShortDescEN,
		fieldShortDescAR: e.ShortDescAR,
		fieldDescEN:      e.DescEN,
		fieldDescAR:      e.DescAR,
		fieldDeveloperEN: e.DeveloperEN,
		fieldDeveloperAR: e.DeveloperAR,
		fieldDevVerified: boolFlag(e.DeveloperVerified),
		fieldPlatform:    string(e.Platform),
		fieldRating:      strconv.FormatFloat(e.Rating, 'f', -1, 64),
		fieldReviewCount: strconv.Itoa(e.ReviewCount),
		fieldViewCount:   strconv.Itoa(e.ViewCount),
		fieldFeatured:    boolFlag(e.Featured),
		fieldStatus:      string(e.Status),
	}

	slugs := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		slugs = append(slugs, c.Slug)
	}
	fields[fieldCategories] = strings.Join(slugs, ",")

	stores := make([]string, 0, len(e.Listings))
	for _, l := range e.Listings {
		stores = append(stores, l.Store)
		fields[listingFieldPrefix+l.Store] = l.URL
	}
	fields[fieldStores] = strings.Join(stores, ",")

	for typeName, values := range e.MetadataValues {
		fields[metadata.FieldName(typeName)] = strings.Join(values, ",")
	}

	return fields
}

// entryFromFields rebuilds a domain entry from hash fields. Categories carry
// slugs only; Get hydrates their labels from the category hashes.
func entryFromFields(id string, fields map[string]string) domain.Entry {
	e := domain.Entry{
		ID:                id,
		NameEN:            fields[fieldNameEN],
		NameAR:            fields[fieldNameAR],
		ShortDescEN:       fields[fieldShortDescEN],
		ShortDescAR:       fields[fieldShortDescAR],
		DescEN:            fields[fieldDescEN],
		DescAR:            fields[fieldDescAR],
		DeveloperEN:       fields[fieldDeveloperEN],
		DeveloperAR:       fields[fieldDeveloperAR],
		DeveloperVerified: fields[fieldDevVerified] == "1",
		Platform:          domain.Platform(fields[fieldPlatform]),
		Featured:          fields[fieldFeatured] == "1",
		Status:            domain.EntryStatus(fields[fieldStatus]),
		EnrichedText:      fields[fieldEnrichText],
		MetadataValues:    make(map[string][]string),
	}

	e.Rating, _ = strconv.ParseFloat(fields[fieldRating], 64)
	e.ReviewCount, _ = strconv.Atoi(fields[fieldReviewCount])
	e.ViewCount, _ = strconv.Atoi(fields[fieldViewCount])

	for _, slug := range splitTags(fields[fieldCategories]) {
		e.Categories = append(e.Categories, domain.Category{Slug: slug})
	}

	for _, store := range splitTags(fields[fieldStores]) {
		e.Listings = append(e.Listings, domain.StoreListing{
			Store: store,
			URL:   fields[listingFieldPrefix+store],
		})
	}

	if ts, err := strconv.ParseInt(fields[fieldEnrichAt], 10, 64); err == nil && ts > 0 {
		e.EnrichedAt = time.Unix(ts, 0).UTC()
	}

	if raw, ok := fields[fieldEmbedding]; ok && raw != "" {
		e.Embedding = db.BytesToVector(raw)
	}

	for name, value := range fields {
		typeName, ok := metadataTypeFromField(name)
		if !ok {
			continue
		}
		e.MetadataValues[typeName] = splitTags(value)
	}

	return e
}

// candidateFromEntry converts one search hit into a runtime candidate.
func candidateFromEntry(id string, distance float64, fields map[string]string) search.Candidate {
	c := search.Candidate{
		ID:             id,
		NameEN:         fields[fieldNameEN],
		NameAR:         fields[fieldNameAR],
		ShortDescEN:    fields[fieldShortDescEN],
		ShortDescAR:    fields[fieldShortDescAR],
		Platform:       fields[fieldPlatform],
		Categories:     splitTags(fields[fieldCategories]),
		Distance:       distance,
		Boost:          1.0,
		Score:          search.CombinedScore(distance, 1.0),
		MetadataValues: make(map[string][]string),
	}
	c.Rating, _ = strconv.ParseFloat(fields[fieldRating], 64)

	for name, value := range fields {
		if _, ok := metadataTypeFromField(name); !ok {
			continue
		}
		c.MetadataValues[name] = splitTags(value)
	}

	return c
}

// metadataTypeFromField inverts metadata.FieldName. The underscore-to-dash
// mapping is safe because type names are slugs without underscores.
func metadataTypeFromField(field string) (string, bool) {
	if !strings.HasPrefix(field, "md_") {
		return "", false
	}
	return strings.ReplaceAll(strings.TrimPrefix(field, "md_"), "_", "-"), true
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// sortedMetadataFields returns md_* field names for deterministic RETURN lists.
func sortedMetadataFields(reg metadata.Registry) []string {
	types := reg.Types()
	fields := make([]string, 0, len(types))
	for _, t := range types {
		fields = append(fields, metadata.FieldName(t.Name))
	}
	sort.Strings(fields)
	return fields
}

func entryKey(id string) string {
	return fmt.Sprintf("%sentry:%s", domain.KeyPrefix, id)
}

func categoryKey(slug string) string {
	return fmt.Sprintf("%scategory:%s", domain.KeyPrefix, slug)
}

// Package entry persists catalog entries as hashes behind one FT index and
// serves the read paths of the retrieval pipeline. The only fields the
// search engine ever writes are the embedding and the enrichment cache.
package entry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bayanapps/dalil/internal/db"
	"github.com/bayanapps/dalil/internal/db/redis"
	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/metadata"
	"github.com/bayanapps/dalil/internal/domain/search"
	"github.com/bayanapps/dalil/internal/domain/search/filter"
)

// store is the consumer interface for entry persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// HNSWConfig carries index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements entry persistence over db.Store.
type Repo struct {
	store     store
	vectorDim int
	hnsw      HNSWConfig
}

// New creates an entry repository.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim}
}

// WithHNSW configures HNSW index build parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// IndexName is the FT index over all entry hashes.
func IndexName() string {
	return domain.KeyPrefix + "entries:idx"
}

// EnsureIndex creates the entry FT index if absent. Metadata tag fields for
// the given registry snapshot are part of the schema; adding a new metadata
// type later requires re-running EnsureIndex after dropping the index.
func (r *Repo) EnsureIndex(ctx context.Context, reg metadata.Registry) error {
	exists, err := r.store.IndexExists(ctx, IndexName())
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}

	b := db.NewIndex(IndexName()).
		Prefix(domain.KeyPrefix+"entry:").
		Tag(fieldStatus).
		Tag(fieldPlatform).
		Tag(fieldFeatured).
		TagWithSeparator(fieldCategories, ",").
		TagWithSeparator(fieldStores, ",").
		Numeric(fieldRating).
		Numeric(fieldReviewCount).
		Numeric(fieldViewCount).
		VectorHNSW(fieldEmbedding, r.vectorDim, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct)

	for _, f := range sortedMetadataFields(reg) {
		b = b.TagWithSeparator(f, ",")
	}

	def, err := b.Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Save upserts a full catalog entry. Embedding and enrichment fields are
// left untouched (they live under separate writes).
func (r *Repo) Save(ctx context.Context, e *domain.Entry) error {
	if e.ID == "" {
		return fmt.Errorf("entry id is required")
	}
	if err := r.store.HSet(ctx, entryKey(e.ID), entryToFields(e)); err != nil {
		return fmt.Errorf("save entry %s: %w", e.ID, err)
	}
	return nil
}

// SaveCategory upserts a category reference hash used for label hydration.
func (r *Repo) SaveCategory(ctx context.Context, c domain.Category) error {
	if c.Slug == "" {
		return fmt.Errorf("category slug is required")
	}
	fields := map[string]string{
		"name_en": c.NameEN,
		"name_ar": c.NameAR,
		"desc_en": c.DescEN,
		"desc_ar": c.DescAR,
	}
	if err := r.store.HSet(ctx, categoryKey(c.Slug), fields); err != nil {
		return fmt.Errorf("save category %s: %w", c.Slug, err)
	}
	return nil
}

// Get loads one entry with hydrated category labels.
func (r *Repo) Get(ctx context.Context, id string) (domain.Entry, error) {
	fields, err := r.store.HGetAll(ctx, entryKey(id))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.Entry{}, domain.ErrEntryNotFound
	}

	e := entryFromFields(id, fields)

	if len(e.Categories) > 0 {
		keys := make([]string, len(e.Categories))
		for i, c := range e.Categories {
			keys[i] = categoryKey(c.Slug)
		}
		hydrated, err := r.store.HGetAllMulti(ctx, keys)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("hydrate categories for %s: %w", id, err)
		}
		for i := range e.Categories {
			if i >= len(hydrated) {
				break
			}
			e.Categories[i].NameEN = hydrated[i]["name_en"]
			e.Categories[i].NameAR = hydrated[i]["name_ar"]
			e.Categories[i].DescEN = hydrated[i]["desc_en"]
			e.Categories[i].DescAR = hydrated[i]["desc_ar"]
		}
	}

	return e, nil
}

// SaveEmbedding writes the vector field of an entry. Last write wins when
// concurrent jobs touch the same entry; embeddings are idempotently derived
// from entry state, so the race is harmless.
func (r *Repo) SaveEmbedding(ctx context.Context, id string, vector []float32) error {
	if r.vectorDim > 0 && len(vector) != r.vectorDim {
		return fmt.Errorf("entry %s: got %d dims, want %d: %w",
			id, len(vector), r.vectorDim, domain.ErrVectorDimMismatch)
	}
	exists, err := r.store.Exists(ctx, entryKey(id))
	if err != nil {
		return fmt.Errorf("probe entry %s: %w", id, err)
	}
	if !exists {
		return domain.ErrEntryNotFound
	}
	fields := map[string]string{fieldEmbedding: db.VectorToBytes(vector)}
	if err := r.store.HSet(ctx, entryKey(id), fields); err != nil {
		return fmt.Errorf("save embedding %s: %w", id, err)
	}
	return nil
}

// SaveEnrichment caches crawled text and its fetch time on the entry.
func (r *Repo) SaveEnrichment(ctx context.Context, id, text string, at time.Time) error {
	fields := map[string]string{
		fieldEnrichText: text,
		fieldEnrichAt:   strconv.FormatInt(at.Unix(), 10),
	}
	if err := r.store.HSet(ctx, entryKey(id), fields); err != nil {
		return fmt.Errorf("save enrichment %s: %w", id, err)
	}
	return nil
}

// publishedClause restricts any query to searchable entries.
func publishedClause() filter.Clause {
	return filter.NewClause(fieldStatus, []string{string(domain.StatusPublished)})
}

// SearchKNN ranks published entries matching the filter by vector distance
// and returns up to k candidates. Entries without an embedding never match.
func (r *Repo) SearchKNN(
	ctx context.Context, vector []float32, filters filter.Expression, k int, reg metadata.Registry,
) ([]search.Candidate, error) {
	returnFields := []string{
		fieldNameEN, fieldNameAR, fieldShortDescEN, fieldShortDescAR,
		fieldPlatform, fieldCategories, fieldRating, "__embedding_score",
	}
	returnFields = append(returnFields, sortedMetadataFields(reg)...)

	q := &db.KNNQuery{
		IndexName:    IndexName(),
		Filters:      filters.And(publishedClause()),
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	prefix := domain.KeyPrefix + "entry:"
	candidates := make([]search.Candidate, 0, len(sr.Entries))
	for _, hit := range sr.Entries {
		id := strings.TrimPrefix(hit.Key, prefix)
		candidates = append(candidates, candidateFromEntry(id, hit.Distance, hit.Fields))
	}
	return candidates, nil
}

// SamplePopulation scans up to limit published entries matching the filter,
// returning only the fields faceting needs. The sample bounds facet cost on
// large catalogs.
func (r *Repo) SamplePopulation(
	ctx context.Context, filters filter.Expression, limit int, reg metadata.Registry,
) ([]search.Candidate, error) {
	returnFields := append([]string{fieldPlatform}, sortedMetadataFields(reg)...)

	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    IndexName(),
		Filters:      filters.And(publishedClause()),
		Offset:       0,
		Limit:        limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("sample population: %w", err)
	}

	prefix := domain.KeyPrefix + "entry:"
	out := make([]search.Candidate, 0, len(sr.Entries))
	for _, hit := range sr.Entries {
		id := strings.TrimPrefix(hit.Key, prefix)
		out = append(out, candidateFromEntry(id, 0, hit.Fields))
	}
	return out, nil
}

// ListIDs pages through entry ids regardless of embedding state. When
// publishedOnly is set, drafts and rejected entries are skipped.
func (r *Repo) ListIDs(ctx context.Context, publishedOnly bool, offset, limit int) ([]string, int, error) {
	var filters filter.Expression
	if publishedOnly {
		filters = filter.NewExpression(publishedClause())
	}

	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: IndexName(),
		Filters:   filters,
		Offset:    offset,
		Limit:     limit,
		KeysOnly:  true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list entry ids: %w", err)
	}

	prefix := domain.KeyPrefix + "entry:"
	ids := make([]string, 0, len(sr.Entries))
	for _, hit := range sr.Entries {
		ids = append(ids, strings.TrimPrefix(hit.Key, prefix))
	}
	return ids, sr.Total, nil
}

// CountPublished returns the searchable entry count.
func (r *Repo) CountPublished(ctx context.Context) (int, error) {
	query := redis.BuildFilter(filter.NewExpression(publishedClause()))
	n, err := r.store.SearchCount(ctx, IndexName(), query)
	if err != nil {
		return 0, fmt.Errorf("count published: %w", err)
	}
	return n, nil
}

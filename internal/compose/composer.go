// Package compose builds the text document an entry is embedded from. The
// section order is fixed: embedding models weight early tokens more when the
// input window truncates, so the strongest identity signals come first.
// Composition is a pure function of its inputs; the same entry always yields
// byte-identical output.
package compose

import (
	"fmt"
	"strings"

	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/metadata"
)

const (
	categoryExcerptLimit = 100
	descriptionLimit     = 1000
	enrichmentLimit      = 2000
)

// Options control the optional sections of a composed document.
type Options struct {
	// Complete includes the full bilingual descriptions (capped). Off for
	// quick reindex passes where short descriptions carry enough signal.
	Complete bool
	// Enrichment is externally crawled text, already fetched by the caller.
	// Empty means the section is omitted.
	Enrichment string
}

// Document assembles the embedding input for one entry. Sections with no
// content are omitted entirely; the composer never pads with placeholders.
func Document(e *domain.Entry, reg metadata.Registry, opts Options) string {
	var sections []string
	add := func(tag, body string) {
		if body = strings.TrimSpace(body); body != "" {
			sections = append(sections, "["+tag+"] "+body)
		}
	}

	add("NAME", joinBilingual(e.NameEN, e.NameAR))
	add("CATEGORIES", categoriesSection(e.Categories))
	add("DEVELOPER", developerSection(e))
	add("SHORT", joinBilingual(e.ShortDescEN, e.ShortDescAR))

	if opts.Complete {
		add("DESCRIPTION", joinBilingual(
			truncate(e.DescEN, descriptionLimit),
			truncate(e.DescAR, descriptionLimit),
		))
	}

	add("PLATFORM", platformSection(e))
	add("QUALITY", qualitySection(e))
	if e.Featured {
		add("FEATURED", "Editor's choice")
	}
	add("ENRICHMENT", truncate(opts.Enrichment, enrichmentLimit))

	for _, t := range reg.Types() {
		values := e.MetadataValues[t.Name]
		if len(values) == 0 {
			continue
		}
		add(strings.ToUpper(t.Name), metadataSection(t, values, reg))
	}

	return strings.Join(sections, "\n")
}

func joinBilingual(en, ar string) string {
	en, ar = strings.TrimSpace(en), strings.TrimSpace(ar)
	switch {
	case en == "":
		return ar
	case ar == "":
		return en
	default:
		return en + " / " + ar
	}
}

func categoriesSection(categories []domain.Category) string {
	var parts []string
	for _, c := range categories {
		name := joinBilingual(c.NameEN, c.NameAR)
		if name == "" {
			name = c.Slug
		}
		if excerpt := truncate(strings.TrimSpace(c.DescEN), categoryExcerptLimit); excerpt != "" {
			name += " (" + excerpt + ")"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "; ")
}

func developerSection(e *domain.Entry) string {
	dev := joinBilingual(e.DeveloperEN, e.DeveloperAR)
	if dev == "" {
		return ""
	}
	if e.DeveloperVerified {
		dev += " (verified developer)"
	}
	return dev
}

func platformSection(e *domain.Entry) string {
	var b strings.Builder
	switch e.Platform {
	case domain.PlatformAndroid:
		b.WriteString("Android")
	case domain.PlatformIOS:
		b.WriteString("iOS")
	case domain.PlatformBoth:
		b.WriteString("Android and iOS")
	}
	if len(e.Listings) > 0 {
		stores := make([]string, 0, len(e.Listings))
		for _, l := range e.Listings {
			stores = append(stores, l.Store)
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "available on %s", strings.Join(stores, ", "))
	}
	return b.String()
}

// qualitySection renders tier words instead of raw numbers: "Excellent"
// embeds better than "4.7".
func qualitySection(e *domain.Entry) string {
	var parts []string
	if tier := e.QualityTier(); tier != "" {
		parts = append(parts, tier+" rating")
	}
	if tier := e.PopularityTier(); tier != "" {
		parts = append(parts, tier)
	}
	return strings.Join(parts, ", ")
}

func metadataSection(t metadata.Type, values []string, reg metadata.Registry) string {
	var parts []string
	for _, v := range values {
		if o, ok := reg.Option(t.Name, v); ok {
			parts = append(parts, joinBilingual(o.LabelEN, o.LabelAR))
			continue
		}
		// value without a (still-)active option: fall back to the raw slug
		parts = append(parts, v)
	}
	label := joinBilingual(t.LabelEN, t.LabelAR)
	if label == "" {
		return strings.Join(parts, ", ")
	}
	return label + ": " + strings.Join(parts, ", ")
}

// truncate limits s to max runes, never splitting a multi-byte character.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

package domain

import "time"

// KeyPrefix namespaces every key the service writes to the store.
const KeyPrefix = "dalil:"

// Platform enumerates where a catalog entry is available.
type Platform string

const (
	// PlatformAndroid marks Android-only entries.
	PlatformAndroid Platform = "android"
	// PlatformIOS marks iOS-only entries.
	PlatformIOS Platform = "ios"
	// PlatformBoth marks entries shipped on both platforms.
	PlatformBoth Platform = "both"
)

// EntryStatus is the catalog lifecycle state of an entry.
type EntryStatus string

const (
	// StatusDraft entries are invisible to search.
	StatusDraft EntryStatus = "draft"
	// StatusPending entries await approval.
	StatusPending EntryStatus = "pending"
	// StatusPublished entries are searchable.
	StatusPublished EntryStatus = "published"
	// StatusRejected entries were declined by review.
	StatusRejected EntryStatus = "rejected"
)

// Category is a bilingual category membership of an entry.
type Category struct {
	Slug    string
	NameEN  string
	NameAR  string
	DescEN  string
	DescAR  string
}

// StoreListing points at an external app-store page for an entry.
type StoreListing struct {
	Store string // e.g. "google-play", "app-store"
	URL   string
}

// Entry is one searchable catalog record. The search engine reads all of it
// and writes back only Embedding and the enrichment cache.
type Entry struct {
	ID          string
	NameEN      string
	NameAR      string
	ShortDescEN string
	ShortDescAR string
	DescEN      string
	DescAR      string

	Categories []Category

	DeveloperEN       string
	DeveloperAR       string
	DeveloperVerified bool

	Platform Platform
	Listings []StoreListing

	Rating      float64
	ReviewCount int
	ViewCount   int
	Featured    bool

	Status EntryStatus

	// MetadataValues maps an active metadata type name to the option values
	// this entry holds (e.g. "narration-style" -> ["hafs"]).
	MetadataValues map[string][]string

	// Embedding is nil until the entry is indexed for the first time.
	Embedding []float32

	// EnrichedText is the cached crawl payload; EnrichedAt is zero when the
	// entry was never enriched.
	EnrichedText string
	EnrichedAt   time.Time
}

// HasEmbedding reports whether the entry has been vectorized.
func (e *Entry) HasEmbedding() bool { return len(e.Embedding) > 0 }

// EnrichmentStale reports whether the cached enrichment is older than maxAge
// (or absent entirely).
func (e *Entry) EnrichmentStale(now time.Time, maxAge time.Duration) bool {
	if e.EnrichedText == "" || e.EnrichedAt.IsZero() {
		return true
	}
	return now.Sub(e.EnrichedAt) > maxAge
}

// QualityTier derives a human phrase from the rating. Tier words carry more
// embedding signal than raw digits.
func (e *Entry) QualityTier() string {
	switch {
	case e.Rating >= 4.5:
		return "Excellent"
	case e.Rating >= 4.0:
		return "Very Good"
	case e.Rating >= 3.0:
		return "Good"
	case e.Rating > 0:
		return "Average"
	default:
		return ""
	}
}

// PopularityTier derives a human phrase from the view count.
func (e *Entry) PopularityTier() string {
	switch {
	case e.ViewCount >= 10000:
		return "Very Popular"
	case e.ViewCount >= 1000:
		return "Popular"
	default:
		return ""
	}
}

package db

import "github.com/bayanapps/dalil/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search with tag pre-filtering.
type KNNQuery struct {
	IndexName    string
	Filters      filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
}

// ListQuery is the input for a filtered, paginated scan over an index.
// An empty filter expression matches everything. KeysOnly suppresses field
// retrieval entirely (FT.SEARCH NOCONTENT).
type ListQuery struct {
	IndexName    string
	Filters      filter.Expression
	Offset       int
	Limit        int
	ReturnFields []string
	KeysOnly     bool
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search. Distance is the raw
// cosine distance for KNN hits, zero for list scans.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}

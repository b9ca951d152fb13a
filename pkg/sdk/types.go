package dalil

// SearchRequest is a hybrid search query. Only Query is required.
type SearchRequest struct {
	Query      string            `json:"query"`
	Filters    map[string]string `json:"filters,omitempty"`
	Platform   string            `json:"platform,omitempty"`
	Category   string            `json:"category,omitempty"`
	Limit      int               `json:"limit,omitempty"`
	Page       int               `json:"page,omitempty"`
	PageSize   int               `json:"page_size,omitempty"`
	// Boost defaults to on server-side; set to disable keyword boosting.
	Boost      *bool `json:"boost,omitempty"`
	Rerank     bool  `json:"rerank,omitempty"`
	RerankTopK int   `json:"rerank_top_k,omitempty"`
	Facets     bool  `json:"facets,omitempty"`
}

// MatchReason explains one keyword boost applied to a result.
type MatchReason struct {
	Type    string `json:"type"`
	Value   string `json:"value"`
	LabelEN string `json:"label_en"`
	LabelAR string `json:"label_ar"`
}

// SearchResult is one ranked catalog entry.
type SearchResult struct {
	ID           string        `json:"id"`
	NameEN       string        `json:"name_en,omitempty"`
	NameAR       string        `json:"name_ar,omitempty"`
	ShortDescEN  string        `json:"short_desc_en,omitempty"`
	ShortDescAR  string        `json:"short_desc_ar,omitempty"`
	Platform     string        `json:"platform,omitempty"`
	Categories   []string      `json:"categories,omitempty"`
	Rating       float64       `json:"rating,omitempty"`
	Score        float64       `json:"score"`
	Distance     float64       `json:"distance"`
	Boost        float64       `json:"boost"`
	MatchReasons []MatchReason `json:"match_reasons,omitempty"`
	Reasoning    string        `json:"reasoning,omitempty"`
	Reranked     bool          `json:"reranked,omitempty"`
}

// FacetValue is one countable option within a facet.
type FacetValue struct {
	Value   string `json:"value"`
	LabelEN string `json:"label_en"`
	LabelAR string `json:"label_ar"`
	Count   int    `json:"count"`
}

// Facets maps a facet name (metadata type name, or "platform") to its
// non-zero value counts.
type Facets map[string][]FacetValue

// SearchPage is a paginated search response.
type SearchPage struct {
	Results    []SearchResult `json:"results"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	Facets     Facets         `json:"facets,omitempty"`
}

// Category is a catalog category reference.
type Category struct {
	Slug   string `json:"slug"`
	NameEN string `json:"name_en,omitempty"`
	NameAR string `json:"name_ar,omitempty"`
}

// Listing is a store listing link.
type Listing struct {
	Store string `json:"store"`
	URL   string `json:"url"`
}

// Entry is a full catalog entry.
type Entry struct {
	ID                string              `json:"id"`
	NameEN            string              `json:"name_en,omitempty"`
	NameAR            string              `json:"name_ar,omitempty"`
	ShortDescEN       string              `json:"short_desc_en,omitempty"`
	ShortDescAR       string              `json:"short_desc_ar,omitempty"`
	DescEN            string              `json:"desc_en,omitempty"`
	DescAR            string              `json:"desc_ar,omitempty"`
	Categories        []Category          `json:"categories,omitempty"`
	DeveloperEN       string              `json:"developer_en,omitempty"`
	DeveloperAR       string              `json:"developer_ar,omitempty"`
	DeveloperVerified bool                `json:"developer_verified,omitempty"`
	Platform          string              `json:"platform,omitempty"`
	Listings          []Listing           `json:"listings,omitempty"`
	Rating            float64             `json:"rating,omitempty"`
	ReviewCount       int                 `json:"review_count,omitempty"`
	ViewCount         int                 `json:"view_count,omitempty"`
	Featured          bool                `json:"featured,omitempty"`
	Status            string              `json:"status"`
	Metadata          map[string][]string `json:"metadata,omitempty"`
	HasEmbedding      bool                `json:"has_embedding"`
	EnrichedAt        string              `json:"enriched_at,omitempty"`
}

// MetadataOption is one selectable value of a metadata type.
type MetadataOption struct {
	Value     string `json:"value"`
	LabelEN   string `json:"label_en,omitempty"`
	LabelAR   string `json:"label_ar,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
	Color     string `json:"color,omitempty"`
	Icon      string `json:"icon,omitempty"`
}

// MetadataType is one filter axis with its options.
type MetadataType struct {
	Name        string           `json:"name"`
	LabelEN     string           `json:"label_en,omitempty"`
	LabelAR     string           `json:"label_ar,omitempty"`
	MultiValued bool             `json:"multi_valued,omitempty"`
	SortOrder   int              `json:"sort_order,omitempty"`
	Options     []MetadataOption `json:"options"`
}

// Metadata is the full filter vocabulary.
type Metadata struct {
	Types []MetadataType `json:"types"`
}

// CreateTypeRequest registers a new metadata type.
type CreateTypeRequest struct {
	Name        string `json:"name"`
	LabelEN     string `json:"label_en,omitempty"`
	LabelAR     string `json:"label_ar,omitempty"`
	MultiValued bool   `json:"multi_valued,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// CreateOptionRequest registers a new option under an existing type.
type CreateOptionRequest struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	LabelEN   string `json:"label_en,omitempty"`
	LabelAR   string `json:"label_ar,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
	Color     string `json:"color,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

// ReindexRequest starts a background reindex job. A zero value reindexes
// the whole published catalog.
type ReindexRequest struct {
	EntryIDs  []string `json:"entry_ids,omitempty"`
	Crawl     bool     `json:"crawl,omitempty"`
	Force     bool     `json:"force,omitempty"`
	Quick     bool     `json:"quick,omitempty"`
	BatchSize int      `json:"batch_size,omitempty"`
}

// Job is the observable state of a reindex job.
type Job struct {
	ID           string `json:"id"`
	State        string `json:"state"`
	Total        int    `json:"total"`
	Processed    int    `json:"processed"`
	Errors       int    `json:"errors"`
	Enriched     int    `json:"enriched"`
	Percent      int    `json:"percent"`
	CurrentEntry string `json:"current_entry,omitempty"`
	Message      string `json:"message,omitempty"`
	StartedAt    string `json:"started_at,omitempty"`
	FinishedAt   string `json:"finished_at,omitempty"`
}

// Health is the aggregated service health report.
type Health struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Entries int               `json:"entries,omitempty"`
}

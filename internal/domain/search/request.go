package search

// Query limits. Defaults apply when a field is zero; hard caps are enforced
// in Normalize so a handler cannot request an unbounded scan.
const (
	DefaultLimit      = 50
	MaxLimit          = 100
	DefaultRerankTopK = 10
	MaxRerankTopK     = 20
	DefaultPageSize   = 20
	MaxPageSize       = 100
	// FacetSampleSize bounds the filtered population facets are computed
	// over. Facets describe the filtered set, not the returned page.
	FacetSampleSize = 500
)

// Request is one search invocation.
type Request struct {
	Query    string
	Filters  map[string]string // metadata type name -> comma-separated values
	Platform string
	Category string

	Limit      int
	Page       int
	PageSize   int
	RerankTopK int

	Boost  bool
	Rerank bool
	Facets bool
}

// Normalize fills defaults and clamps limits in place.
func (r *Request) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	if r.RerankTopK <= 0 {
		r.RerankTopK = DefaultRerankTopK
	}
	if r.RerankTopK > MaxRerankTopK {
		r.RerankTopK = MaxRerankTopK
	}
}

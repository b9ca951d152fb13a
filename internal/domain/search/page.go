package search

// FacetValue is one countable option within a facet, with bilingual labels
// for filter-UI population.
type FacetValue struct {
	Value   string `json:"value"`
	LabelEN string `json:"label_en"`
	LabelAR string `json:"label_ar"`
	Count   int    `json:"count"`
}

// Facets maps a facet name (metadata type name, or "platform") to its
// non-zero value counts. Informational only: facets never restrict results.
type Facets map[string][]FacetValue

// Page is the paginated, always well-formed search response.
type Page struct {
	Results    []Candidate
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	Facets     Facets
}

// Paginate slices candidates into a page. Out-of-range pages yield empty
// result lists, never an error.
func Paginate(candidates []Candidate, page, pageSize int, facets Facets) Page {
	total := len(candidates)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Results:    candidates[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Facets:     facets,
	}
}

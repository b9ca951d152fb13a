// Package search holds the runtime-only types a query decorates candidates
// with. None of these decorations are ever written back to the store.
package search

// MatchReason records one metadata keyword that overlapped with the query.
type MatchReason struct {
	Type    string `json:"type"`
	Value   string `json:"value"`
	LabelEN string `json:"label_en"`
	LabelAR string `json:"label_ar"`
}

// Candidate is a catalog entry decorated during a single query lifecycle.
type Candidate struct {
	ID          string
	NameEN      string
	NameAR      string
	ShortDescEN string
	ShortDescAR string
	Platform    string
	Categories  []string
	Rating      float64

	// MetadataValues maps index field name (md_*) to held values, as read
	// back from the search index for boosting and faceting.
	MetadataValues map[string][]string

	// Distance is the cosine distance to the query embedding (lower is closer).
	Distance float64
	// Boost is the multiplicative score adjustment, 1.0 when boosting is off.
	Boost float64
	// Score is (1 - Distance) * Boost.
	Score float64

	MatchReasons []MatchReason
	// Reasoning is the reranker-supplied justification, when any.
	Reasoning string
	// Reranked marks candidates the provider reordered.
	Reranked bool
}

// CombinedScore computes the boosted relevance score from a cosine distance.
func CombinedScore(distance, boost float64) float64 {
	return (1 - distance) * boost
}

package search

import (
	"strings"

	"github.com/bayanapps/dalil/internal/domain/metadata"
	domsearch "github.com/bayanapps/dalil/internal/domain/search"
)

// boostCandidates applies keyword boosting in place. Every held metadata
// value mentioned in the query adds one increment to the score multiplier,
// clamped at cap, and records a match reason for presentation. Vector rank
// alone cannot be displaced by more than cap.
func boostCandidates(
	candidates []domsearch.Candidate, query string,
	reg metadata.Registry, increment, cap float64,
) {
	q := strings.ToLower(query)
	types := reg.Types()

	for i := range candidates {
		c := &candidates[i]
		matches := 0

		for _, t := range types {
			for _, v := range c.MetadataValues[metadata.FieldName(t.Name)] {
				opt, _ := reg.Option(t.Name, v)
				if !queryMentions(q, v, opt) {
					continue
				}
				matches++
				c.MatchReasons = append(c.MatchReasons, domsearch.MatchReason{
					Type:    t.Name,
					Value:   v,
					LabelEN: opt.LabelEN,
					LabelAR: opt.LabelAR,
				})
			}
		}

		boost := 1.0 + increment*float64(matches)
		if boost > cap {
			boost = cap
		}
		c.Boost = boost
		c.Score = domsearch.CombinedScore(c.Distance, boost)
	}
}

// queryMentions reports whether the lower-cased query contains any keyword
// derived from a metadata value: the raw value, its dash-split form, either
// label, or a single word of the Arabic label. Arabic labels are often
// multi-word phrases while queries carry one word of them, so the label
// matches word by word. Unknown values still match on the raw value, so
// stale vocabulary weakens boosting instead of breaking it.
func queryMentions(query, value string, opt metadata.Option) bool {
	keywords := []string{
		value,
		strings.ReplaceAll(value, "-", " "),
		strings.ToLower(opt.LabelEN),
		opt.LabelAR,
	}
	keywords = append(keywords, strings.Fields(opt.LabelAR)...)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

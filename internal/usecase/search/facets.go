package search

import (
	"context"
	"fmt"

	"github.com/bayanapps/dalil/internal/domain/metadata"
	domsearch "github.com/bayanapps/dalil/internal/domain/search"
	"github.com/bayanapps/dalil/internal/domain/search/filter"
)

// platformFacetLabels fixes the order and bilingual labels of the platform
// axis, which is structural rather than vocabulary driven.
var platformFacetLabels = []domsearch.FacetValue{
	{Value: "android", LabelEN: "Android", LabelAR: "أندرويد"},
	{Value: "ios", LabelEN: "iOS", LabelAR: "آي أو إس"},
	{Value: "both", LabelEN: "Both platforms", LabelAR: "كلا المنصتين"},
}

// facets counts options over a bounded sample of the filtered population.
// Facets describe the whole filtered set, not the returned page.
func (s *Service) facets(
	ctx context.Context, filters filter.Expression, reg metadata.Registry,
) (domsearch.Facets, error) {
	population, err := s.repo.SamplePopulation(ctx, filters, s.opts.FacetSample, reg)
	if err != nil {
		return nil, fmt.Errorf("sample population: %w", err)
	}
	return computeFacets(population, reg), nil
}

// computeFacets counts entries per option. Options nobody in the population
// holds are omitted, so a filter UI never offers a choice that guarantees an
// empty refinement.
func computeFacets(population []domsearch.Candidate, reg metadata.Registry) domsearch.Facets {
	facets := make(domsearch.Facets)

	for _, t := range reg.Types() {
		field := metadata.FieldName(t.Name)
		counts := make(map[string]int)
		for _, c := range population {
			for _, v := range c.MetadataValues[field] {
				counts[v]++
			}
		}

		var values []domsearch.FacetValue
		for _, opt := range reg.Options(t.Name) {
			n := counts[opt.Value]
			if n == 0 {
				continue
			}
			values = append(values, domsearch.FacetValue{
				Value:   opt.Value,
				LabelEN: opt.LabelEN,
				LabelAR: opt.LabelAR,
				Count:   n,
			})
		}
		if len(values) > 0 {
			facets[t.Name] = values
		}
	}

	platformCounts := make(map[string]int)
	for _, c := range population {
		if c.Platform != "" {
			platformCounts[c.Platform]++
		}
	}
	var platforms []domsearch.FacetValue
	for _, p := range platformFacetLabels {
		if n := platformCounts[p.Value]; n > 0 {
			p.Count = n
			platforms = append(platforms, p)
		}
	}
	if len(platforms) > 0 {
		facets["platform"] = platforms
	}

	return facets
}

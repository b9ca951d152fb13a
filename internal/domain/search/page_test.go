package search

import "testing"

func candidates(ids ...string) []Candidate {
	out := make([]Candidate, len(ids))
	for i, id := range ids {
		out[i] = Candidate{ID: id}
	}
	return out
}

func TestPaginate_FirstPage(t *testing.T) {
	p := Paginate(candidates("a", "b", "c", "d", "e"), 1, 2, nil)

	if p.Total != 5 || p.TotalPages != 3 {
		t.Errorf("Total = %d, TotalPages = %d", p.Total, p.TotalPages)
	}
	if len(p.Results) != 2 || p.Results[0].ID != "a" || p.Results[1].ID != "b" {
		t.Errorf("Results = %+v", p.Results)
	}
}

func TestPaginate_LastPartialPage(t *testing.T) {
	p := Paginate(candidates("a", "b", "c", "d", "e"), 3, 2, nil)

	if len(p.Results) != 1 || p.Results[0].ID != "e" {
		t.Errorf("Results = %+v", p.Results)
	}
}

func TestPaginate_OutOfRangePageIsEmptyNotError(t *testing.T) {
	p := Paginate(candidates("a", "b"), 9, 20, nil)

	if len(p.Results) != 0 {
		t.Errorf("Results = %+v, want empty", p.Results)
	}
	if p.Total != 2 || p.Page != 9 {
		t.Errorf("page shape lost: %+v", p)
	}
}

func TestPaginate_NilCandidates(t *testing.T) {
	p := Paginate(nil, 1, 20, nil)

	if p.Total != 0 || p.TotalPages != 0 || len(p.Results) != 0 {
		t.Errorf("empty page malformed: %+v", p)
	}
}

func TestPaginate_CarriesFacets(t *testing.T) {
	f := Facets{"pricing": {{Value: "free", Count: 3}}}
	p := Paginate(candidates("a"), 1, 20, f)

	if len(p.Facets["pricing"]) != 1 {
		t.Errorf("Facets = %+v", p.Facets)
	}
}

func TestCombinedScore(t *testing.T) {
	tests := []struct {
		distance, boost, want float64
	}{
		{0, 1.0, 1.0},
		{0.2, 1.0, 0.8},
		{0.2, 1.15, 0.92},
		{1.0, 2.0, 0},
	}
	for _, tt := range tests {
		got := CombinedScore(tt.distance, tt.boost)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("CombinedScore(%g, %g) = %g, want %g", tt.distance, tt.boost, got, tt.want)
		}
	}
}

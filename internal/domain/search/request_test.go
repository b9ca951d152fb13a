package search

import "testing"

func TestNormalize_Defaults(t *testing.T) {
	r := Request{Query: "quran"}
	r.Normalize()

	if r.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", r.Limit, DefaultLimit)
	}
	if r.Page != 1 {
		t.Errorf("Page = %d, want 1", r.Page)
	}
	if r.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", r.PageSize, DefaultPageSize)
	}
	if r.RerankTopK != DefaultRerankTopK {
		t.Errorf("RerankTopK = %d, want %d", r.RerankTopK, DefaultRerankTopK)
	}
}

func TestNormalize_ClampsCaps(t *testing.T) {
	r := Request{Query: "quran", Limit: 10000, PageSize: 9999, RerankTopK: 100, Page: -3}
	r.Normalize()

	if r.Limit != MaxLimit {
		t.Errorf("Limit = %d, want %d", r.Limit, MaxLimit)
	}
	if r.PageSize != MaxPageSize {
		t.Errorf("PageSize = %d, want %d", r.PageSize, MaxPageSize)
	}
	if r.RerankTopK != MaxRerankTopK {
		t.Errorf("RerankTopK = %d, want %d", r.RerankTopK, MaxRerankTopK)
	}
	if r.Page != 1 {
		t.Errorf("Page = %d, want 1", r.Page)
	}
}

func TestNormalize_KeepsValidValues(t *testing.T) {
	r := Request{Query: "quran", Limit: 30, Page: 2, PageSize: 10, RerankTopK: 5}
	r.Normalize()

	if r.Limit != 30 || r.Page != 2 || r.PageSize != 10 || r.RerankTopK != 5 {
		t.Errorf("normalized in-range request changed: %+v", r)
	}
}

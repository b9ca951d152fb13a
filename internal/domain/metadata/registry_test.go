package metadata

import (
	"reflect"
	"testing"
)

func testTypes() []Type {
	return []Type{
		{Name: "target-audience", LabelEN: "Audience", Active: true, SortOrder: 2, MultiValued: true},
		{Name: "pricing", LabelEN: "Pricing", LabelAR: "التسعير", Active: true, SortOrder: 1},
		{Name: "retired", Active: false},
	}
}

func testOptions() []Option {
	return []Option{
		{TypeName: "pricing", Value: "paid", Active: true, SortOrder: 2},
		{TypeName: "pricing", Value: "free", LabelEN: "Free", LabelAR: "مجاني", Active: true, SortOrder: 1},
		{TypeName: "pricing", Value: "trial", Active: false},
		{TypeName: "target-audience", Value: "kids", Active: true},
		{TypeName: "retired", Value: "gone", Active: true},
		{TypeName: "unknown-type", Value: "orphan", Active: true},
	}
}

func TestNewRegistry_DropsInactive(t *testing.T) {
	reg := NewRegistry(testTypes(), testOptions())

	if reg.HasType("retired") {
		t.Error("inactive type survived")
	}
	if _, ok := reg.Option("pricing", "trial"); ok {
		t.Error("inactive option survived")
	}
	if _, ok := reg.Option("retired", "gone"); ok {
		t.Error("option under inactive type survived")
	}
	if _, ok := reg.Option("unknown-type", "orphan"); ok {
		t.Error("orphan option survived")
	}
}

func TestTypes_SortedBySortOrderThenName(t *testing.T) {
	reg := NewRegistry(testTypes(), testOptions())

	types := reg.Types()
	if len(types) != 2 {
		t.Fatalf("Types() = %v", types)
	}
	if types[0].Name != "pricing" || types[1].Name != "target-audience" {
		t.Errorf("order = [%s, %s]", types[0].Name, types[1].Name)
	}
}

func TestOptions_SortedAndScoped(t *testing.T) {
	reg := NewRegistry(testTypes(), testOptions())

	opts := reg.Options("pricing")
	if len(opts) != 2 {
		t.Fatalf("Options(pricing) = %v", opts)
	}
	if opts[0].Value != "free" || opts[1].Value != "paid" {
		t.Errorf("order = [%s, %s]", opts[0].Value, opts[1].Value)
	}
	if opts[0].LabelAR != "مجاني" {
		t.Errorf("LabelAR = %q", opts[0].LabelAR)
	}
	if reg.Options("nope") != nil {
		t.Error("Options(nope) != nil")
	}
}

func TestResolve_BuildsClausesPerType(t *testing.T) {
	reg := NewRegistry(testTypes(), testOptions())

	expr := reg.Resolve(map[string]string{
		"pricing":         "free,paid",
		"target-audience": "kids",
	})

	clauses := expr.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("Clauses() = %v", clauses)
	}
	// Deterministic: keys resolve in sorted order.
	if clauses[0].Field() != "md_pricing" {
		t.Errorf("Field() = %q", clauses[0].Field())
	}
	if !reflect.DeepEqual(clauses[0].Values(), []string{"free", "paid"}) {
		t.Errorf("Values() = %v", clauses[0].Values())
	}
	if clauses[1].Field() != "md_target_audience" {
		t.Errorf("Field() = %q", clauses[1].Field())
	}
}

func TestResolve_DropsUnknownTypesAndEmptyValues(t *testing.T) {
	reg := NewRegistry(testTypes(), testOptions())

	expr := reg.Resolve(map[string]string{
		"bogus":   "whatever",
		"pricing": " ,  , ",
	})
	if !expr.IsEmpty() {
		t.Errorf("Clauses() = %v, want empty", expr.Clauses())
	}
}

func TestResolve_NormalizesValues(t *testing.T) {
	reg := NewRegistry(testTypes(), testOptions())

	expr := reg.Resolve(map[string]string{"pricing": " Free , FREE, paid "})
	clauses := expr.Clauses()
	if len(clauses) != 1 {
		t.Fatalf("Clauses() = %v", clauses)
	}
	if !reflect.DeepEqual(clauses[0].Values(), []string{"free", "paid"}) {
		t.Errorf("Values() = %v", clauses[0].Values())
	}
}

func TestResolve_UnknownValuesPassThrough(t *testing.T) {
	// A stale value matches nothing in the index, which is the correct
	// empty result. Resolution must not reject it.
	reg := NewRegistry(testTypes(), testOptions())

	expr := reg.Resolve(map[string]string{"pricing": "freemium"})
	clauses := expr.Clauses()
	if len(clauses) != 1 || clauses[0].Values()[0] != "freemium" {
		t.Errorf("Clauses() = %v", clauses)
	}
}

func TestFieldName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"pricing", "md_pricing"},
		{"target-audience", "md_target_audience"},
		{"a-b-c", "md_a_b_c"},
	}
	for _, tt := range tests {
		if got := FieldName(tt.in); got != tt.want {
			t.Errorf("FieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

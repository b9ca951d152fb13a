package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("entries-idx").
		Prefix("dalil:entry:").
		Tag("platform").
		Numeric("rating").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "entries-idx" {
		t.Errorf("name = %q, want entries-idx", idx.Name)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "platform" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want platform TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "rating" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want rating NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_VectorHNSW(t *testing.T) {
	idx := NewIndex("vec-idx").
		Prefix("dalil:entry:").
		Tag("platform").
		VectorHNSW("embedding", 1024, DistanceCosine, 32, 400).
		MustBuild()

	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	f := idx.Fields[1]
	if f.VectorDim != 1024 {
		t.Errorf("dim = %d, want 1024", f.VectorDim)
	}
	if f.VectorDistance != DistanceCosine {
		t.Errorf("distance = %q, want COSINE", f.VectorDistance)
	}
	if f.VectorM != 32 {
		t.Errorf("M = %d, want 32", f.VectorM)
	}
	if f.VectorEFConstruct != 400 {
		t.Errorf("EF = %d, want 400", f.VectorEFConstruct)
	}
}

func TestIndexBuilder_TagWithSeparator(t *testing.T) {
	idx := NewIndex("sep-idx").
		Prefix("dalil:entry:").
		TagWithSeparator("categories", "|").
		MustBuild()

	if idx.Fields[0].TagSeparator != "|" {
		t.Errorf("separator = %q, want |", idx.Fields[0].TagSeparator)
	}
}

func TestIndexBuilder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		builder *IndexBuilder
		wantErr string
	}{
		{"no name", NewIndex(""), "name is required"},
		{"bad name", NewIndex("bad name!"), "invalid characters"},
		{"no fields", NewIndex("empty-idx"), "at least one field"},
		{"duplicate field", NewIndex("dup-idx").Tag("platform").Tag("platform"), "duplicate field"},
		{"vector without dim", NewIndex("vec-idx").VectorHNSW("embedding", 0, DistanceCosine, 32, 400), "positive DIM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("entries-idx").
		Prefix("dalil:entry:").
		Tag("platform").
		VectorHNSW("embedding", 1024, DistanceCosine, 32, 400).
		MustBuild()

	s := idx.String()
	for _, want := range []string{"FT.CREATE", "entries-idx", "PREFIX", "dalil:entry:", "platform TAG", "embedding VECTOR HNSW"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"entries-idx", "md_pricing", "dalil:entry:", "a1"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false", s)
		}
	}
	invalid := []string{"", "has space", "semi;colon", "star*"}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true", s)
		}
	}
}

func TestVectorBytesRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3.75, 0}
	got := BytesToVector(VectorToBytes(v))
	if len(got) != len(v) {
		t.Fatalf("len = %d, want %d", len(got), len(v))
	}
	for i := range v {
		if got[i] != v[i] {
			t.Errorf("vec[%d] = %g, want %g", i, got[i], v[i])
		}
	}
}

func TestBytesToVector_ShortInput(t *testing.T) {
	if got := BytesToVector("ab"); got != nil {
		t.Errorf("BytesToVector(short) = %v, want nil", got)
	}
}

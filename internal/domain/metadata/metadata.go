// Package metadata models the admin-defined filter schema: types, their
// options, and the registry used to resolve incoming filter maps.
package metadata

// Type is one admin-defined filter dimension (e.g. "narration-style").
// Its Name doubles as the search query-parameter key.
type Type struct {
	Name        string
	LabelEN     string
	LabelAR     string
	MultiValued bool
	Active      bool
	SortOrder   int
}

// Option is one selectable value within a Type. (Type, Value) pairs are
// unique; the same value string may exist under different types.
type Option struct {
	TypeName  string
	Value     string
	LabelEN   string
	LabelAR   string
	Active    bool
	SortOrder int
	Color     string
	Icon      string
}

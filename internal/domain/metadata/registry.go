package metadata

import (
	"sort"
	"strings"

	"github.com/bayanapps/dalil/internal/domain/search/filter"
)

// Registry is the snapshot of active metadata types and options loaded once
// per request. Filter resolution is a pure function of (registry, filter map).
type Registry struct {
	types   map[string]Type
	options map[string]map[string]Option // type name -> value -> option
}

// NewRegistry builds a registry from active types and options. Inactive
// types and options are dropped here so downstream code never sees them.
func NewRegistry(types []Type, options []Option) Registry {
	r := Registry{
		types:   make(map[string]Type, len(types)),
		options: make(map[string]map[string]Option),
	}
	for _, t := range types {
		if !t.Active {
			continue
		}
		r.types[t.Name] = t
		r.options[t.Name] = make(map[string]Option)
	}
	for _, o := range options {
		if !o.Active {
			continue
		}
		byValue, ok := r.options[o.TypeName]
		if !ok {
			continue // option under an inactive or unknown type
		}
		byValue[o.Value] = o
	}
	return r
}

// Types returns the active types ordered by sort order, then name.
func (r Registry) Types() []Type {
	out := make([]Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Options returns the active options of a type ordered by sort order, then value.
func (r Registry) Options(typeName string) []Option {
	byValue, ok := r.options[typeName]
	if !ok {
		return nil
	}
	out := make([]Option, 0, len(byValue))
	for _, o := range byValue {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Option looks up one option by type name and value.
func (r Registry) Option(typeName, value string) (Option, bool) {
	byValue, ok := r.options[typeName]
	if !ok {
		return Option{}, false
	}
	o, ok := byValue[value]
	return o, ok
}

// HasType reports whether the registry holds an active type with this name.
func (r Registry) HasType(name string) bool {
	_, ok := r.types[name]
	return ok
}

// Resolve translates a raw filter map (type name -> comma-separated values)
// into a filter expression. Keys not backed by an active type are silently
// dropped, as are empty or whitespace-only values; values unknown to the
// type still pass through (they match nothing, which is the correct empty
// result, not an error). Values within one type combine with OR; clauses for
// different types combine with AND.
func (r Registry) Resolve(filters map[string]string) filter.Expression {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic clause order

	var clauses []filter.Clause
	for _, key := range keys {
		if !r.HasType(key) {
			continue
		}
		values := splitValues(filters[key])
		if len(values) == 0 {
			continue
		}
		clauses = append(clauses, filter.NewClause(FieldName(key), values))
	}
	return filter.NewExpression(clauses...)
}

// FieldName maps a metadata type name onto its index field name.
// Dashes are flattened because RediSearch field names treat '-' as syntax.
func FieldName(typeName string) string {
	return "md_" + strings.ReplaceAll(typeName, "-", "_")
}

// splitValues normalizes a comma-separated filter value list: trimmed,
// lower-cased, empties dropped, duplicates collapsed, order preserved.
func splitValues(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.ToLower(strings.TrimSpace(p))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

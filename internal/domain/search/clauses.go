package search

import "github.com/bayanapps/dalil/internal/domain/search/filter"

// Index field names the structural clauses bind to. These mirror the entry
// hash schema, unlike metadata fields which are derived from type names.
const (
	FieldPlatform   = "platform"
	FieldCategories = "categories"
)

// PlatformClause restricts results to entries available on the requested
// platform. A single-platform request also matches entries shipped on both;
// anything else yields an empty clause and restricts nothing.
func PlatformClause(platform string) filter.Clause {
	switch platform {
	case "android", "ios":
		return filter.NewClause(FieldPlatform, []string{platform, "both"})
	case "both":
		return filter.NewClause(FieldPlatform, []string{"both"})
	default:
		return filter.Clause{}
	}
}

// CategoryClause restricts results to one category slug.
func CategoryClause(slug string) filter.Clause {
	if slug == "" {
		return filter.Clause{}
	}
	return filter.NewClause(FieldCategories, []string{slug})
}

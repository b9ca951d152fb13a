// Package dalil provides a Go client for the dalil catalog search API.
//
// The client covers the public surface (hybrid search, entry and metadata
// reads, health) and, when configured with an admin key, the admin surface
// (metadata mutations, reindex jobs).
//
//	client, _ := dalil.New("https://api.example.com")
//	page, _ := client.Search(ctx, &dalil.SearchRequest{
//	    Query:  "تطبيق قرآن مجاني",
//	    Facets: true,
//	})
//
// Errors from the API are returned as *APIError and also map onto the
// package sentinels, so callers can use errors.Is:
//
//	_, err := client.Entry(ctx, "missing")
//	if errors.Is(err, dalil.ErrNotFound) { ... }
package dalil

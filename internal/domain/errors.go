package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrEntryNotFound signals a missing catalog entry.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrJobNotFound signals an unknown reindex job id.
	ErrJobNotFound = errors.New("reindex job not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrProviderUnavailable signals that no embedding provider is configured.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRerankProviderError signals a reranking provider failure. Callers
	// treat it as a degrade signal, never as a request failure.
	ErrRerankProviderError = errors.New("rerank provider error")
	// ErrEnrichmentFailed signals that an external listing crawl produced no text.
	ErrEnrichmentFailed = errors.New("enrichment fetch failed")
)

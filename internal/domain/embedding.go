package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// RerankCandidate is the reduced candidate view sent to a reranking provider:
// id plus a short text, never the full catalog record.
type RerankCandidate struct {
	ID   string
	Text string
}

// RankedCandidate is one reranked item returned by a provider, optionally
// with a short natural-language justification.
type RankedCandidate struct {
	ID        string
	Reasoning string
}

// Reranker reorders a small candidate set by relevance to the query.
// Implementations must return only ids present in the input; a provider that
// cannot produce a usable order returns an error and the caller keeps the
// original order (fail-open).
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []RerankCandidate) ([]RankedCandidate, error)
}

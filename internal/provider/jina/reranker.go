package jina

import (
	"context"
	"fmt"

	"github.com/bayanapps/dalil/internal/domain"
)

// Reranker calls the Jina cross-encoder rerank endpoint. Unlike the LLM
// reranker it scores each query/document pair directly; reasoning is the
// relevance score, there is no generated explanation.
type Reranker struct {
	client *Client
}

// NewReranker creates a Jina cross-encoder reranker.
func NewReranker(c *Client) *Reranker {
	return &Reranker{client: c}
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank implements domain.Reranker. The API returns results sorted by
// relevance; indexes outside the candidate list are dropped.
func (r *Reranker) Rerank(
	ctx context.Context, query string, candidates []domain.RerankCandidate,
) ([]domain.RankedCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = c.Text
	}

	req := rerankRequest{
		Model:     r.client.cfg.RerankModel,
		Query:     query,
		Documents: docs,
	}

	var resp rerankResponse
	if err := r.client.post(ctx, "/rerank", req, &resp); err != nil {
		return nil, fmt.Errorf("jina rerank: %w: %w", err, domain.ErrRerankProviderError)
	}

	out := make([]domain.RankedCandidate, 0, len(resp.Results))
	for _, res := range resp.Results {
		if res.Index < 0 || res.Index >= len(candidates) {
			continue
		}
		out = append(out, domain.RankedCandidate{
			ID:        candidates[res.Index].ID,
			Reasoning: fmt.Sprintf("relevance %.3f", res.RelevanceScore),
		})
	}
	return out, nil
}

package jina

import (
	"context"
	"fmt"

	"github.com/bayanapps/dalil/internal/domain"
)

// Embedder calls the Jina embeddings endpoint.
type Embedder struct {
	client *Client
}

// NewEmbedder creates a Jina embedding provider.
func NewEmbedder(c *Client) *Embedder {
	return &Embedder{client: c}
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		TotalTokens  int `json:"total_tokens"`
		PromptTokens int `json:"prompt_tokens"`
	} `json:"usage"`
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := embeddingRequest{
		Model:      e.client.cfg.EmbedModel,
		Input:      []string{text},
		Dimensions: e.client.cfg.Dimensions,
	}

	var resp embeddingResponse
	if err := e.client.post(ctx, "/embeddings", req, &resp); err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("jina embed: %w: %w", err, domain.ErrEmbeddingProviderError)
	}
	if len(resp.Data) == 0 {
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck probes the embeddings endpoint with a one-token input.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	_, err := e.Embed(ctx, "ping")
	if err != nil {
		return fmt.Errorf("jina health check: %w", err)
	}
	return nil
}

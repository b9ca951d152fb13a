package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bayanapps/dalil/internal/domain"
)

// Reranker reorders search candidates with a chat-completion call. The model
// sees the query and a numbered candidate list and answers with a JSON array
// of candidate ids, best first, with a short reason each.
type Reranker struct {
	client *openai.Client
	model  string
}

// NewReranker creates a chat-completion reranker on the same API credentials
// as the embedder.
func NewReranker(cfg *Config) *Reranker {
	return &Reranker{
		client: newClient(cfg),
		model:  cfg.RerankModel,
	}
}

const rerankSystemPrompt = `You rank mobile app search results for relevance to a user query.
The query and app descriptions may be Arabic, English, or mixed; judge relevance across both languages.
Respond with ONLY a JSON array, most relevant first. Each element: {"id": "<candidate id>", "reason": "<short reason>"}.
Include every candidate exactly once. No prose outside the JSON.`

// Rerank implements domain.Reranker. The returned order is the model's; ids
// the model invents are dropped, ids it omits are absent from the result
// (callers re-append them in original order).
func (r *Reranker) Rerank(
	ctx context.Context, query string, candidates []domain.RerankCandidate,
) ([]domain.RankedCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: %s\n\nCandidates:\n", query)
	for _, c := range candidates {
		fmt.Fprintf(&sb, "- id: %s\n  %s\n", c.ID, c.Text)
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rerankSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return nil, parseAPIError("rerank", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty rerank response: %w", domain.ErrRerankProviderError)
	}

	ranked, err := parseRanking(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parse rerank response: %w: %w", err, domain.ErrRerankProviderError)
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}
	out := make([]domain.RankedCandidate, 0, len(ranked))
	seen := make(map[string]bool, len(ranked))
	for _, rc := range ranked {
		if !known[rc.ID] || seen[rc.ID] {
			continue
		}
		seen[rc.ID] = true
		out = append(out, rc)
	}
	return out, nil
}

// parseRanking decodes the model output, repairing malformed JSON first.
// Models wrap arrays in markdown fences or truncate trailing brackets often
// enough that a strict parse alone throws away usable rankings.
func parseRanking(content string) ([]domain.RankedCandidate, error) {
	raw := strings.TrimSpace(content)
	if i := strings.IndexByte(raw, '['); i >= 0 {
		raw = raw[i:]
	}

	var items []struct {
		ID     string `json:"id"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		repaired, repErr := jsonrepair.JSONRepair(raw)
		if repErr != nil {
			return nil, fmt.Errorf("unmarshal ranking: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &items); err != nil {
			return nil, fmt.Errorf("unmarshal repaired ranking: %w", err)
		}
	}

	out := make([]domain.RankedCandidate, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		out = append(out, domain.RankedCandidate{ID: it.ID, Reasoning: it.Reason})
	}
	return out, nil
}

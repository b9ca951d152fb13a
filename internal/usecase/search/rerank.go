package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/bayanapps/dalil/internal/domain"
	domsearch "github.com/bayanapps/dalil/internal/domain/search"
	"github.com/bayanapps/dalil/internal/metrics"
)

// rerankExcerptLimit bounds the text sent per candidate. The provider ranks
// on a name plus a short excerpt, never the full catalog record.
const rerankExcerptLimit = 160

// reranker wraps a rerank provider with a circuit breaker and a bounded
// timeout. Every failure mode keeps the incoming order.
type reranker struct {
	provider domain.Reranker
	name     string
	breaker  *gobreaker.CircuitBreaker
	timeout  time.Duration
	logger   *zap.Logger
}

func newReranker(p domain.Reranker, name string, timeout time.Duration, logger *zap.Logger) *reranker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "rerank",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &reranker{provider: p, name: name, breaker: cb, timeout: timeout, logger: logger}
}

// apply reorders the top-k candidates via the provider. Candidates the
// provider returns lead in its order; top-k candidates it omitted follow in
// their original order; everything beyond k is untouched.
func (r *reranker) apply(
	ctx context.Context, query string, candidates []domsearch.Candidate, topK int,
) []domsearch.Candidate {
	k := topK
	if k > len(candidates) {
		k = len(candidates)
	}
	if k < 2 {
		return candidates
	}
	head := candidates[:k]

	payload := make([]domain.RerankCandidate, 0, k)
	for _, c := range head {
		payload = append(payload, domain.RerankCandidate{ID: c.ID, Text: rerankText(c)})
	}

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	res, err := r.breaker.Execute(func() (any, error) {
		return r.provider.Rerank(rctx, query, payload)
	})
	if err != nil {
		status := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			status = "open"
		}
		metrics.RerankRequestsTotal.WithLabelValues(r.name, status).Inc()
		r.logger.Warn("rerank failed, keeping vector order",
			zap.String("status", status), zap.Error(err))
		return candidates
	}
	metrics.RerankRequestDuration.WithLabelValues(r.name).Observe(time.Since(start).Seconds())
	metrics.RerankRequestsTotal.WithLabelValues(r.name, "success").Inc()

	index := make(map[string]int, k)
	for i, c := range head {
		index[c.ID] = i
	}

	ranked := res.([]domain.RankedCandidate)
	reordered := make([]domsearch.Candidate, 0, len(candidates))
	used := make(map[string]bool, k)
	for _, rc := range ranked {
		i, ok := index[rc.ID]
		if !ok || used[rc.ID] {
			continue
		}
		used[rc.ID] = true
		c := head[i]
		c.Reranked = true
		c.Reasoning = rc.Reasoning
		reordered = append(reordered, c)
	}
	for _, c := range head {
		if !used[c.ID] {
			reordered = append(reordered, c)
		}
	}
	return append(reordered, candidates[k:]...)
}

// rerankText builds the reduced candidate view: bilingual name plus a short
// description excerpt.
func rerankText(c domsearch.Candidate) string {
	names := make([]string, 0, 2)
	if c.NameEN != "" {
		names = append(names, c.NameEN)
	}
	if c.NameAR != "" {
		names = append(names, c.NameAR)
	}
	name := strings.Join(names, " / ")

	desc := c.ShortDescEN
	if desc == "" {
		desc = c.ShortDescAR
	}
	if desc == "" {
		return name
	}
	if runes := []rune(desc); len(runes) > rerankExcerptLimit {
		desc = string(runes[:rerankExcerptLimit])
	}
	return name + " - " + desc
}

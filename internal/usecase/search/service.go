// Package search implements the hybrid retrieval pipeline: pre-filter,
// vector KNN, keyword boosting, optional reranking, faceting, pagination.
// Enhancement stages fail open: a broken embedder yields an empty page, a
// broken reranker yields vector order, broken facets yield none. Only the
// store itself is allowed to fail a request.
package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/bayanapps/dalil/internal/domain"
	domsearch "github.com/bayanapps/dalil/internal/domain/search"
	"github.com/bayanapps/dalil/internal/metrics"
)

// Options tunes the pipeline. Zero values fall back to sensible defaults.
type Options struct {
	BoostIncrement float64
	BoostCap       float64
	RerankProvider string
	RerankTimeout  time.Duration
	FacetSample    int
}

func (o *Options) withDefaults() {
	if o.BoostIncrement <= 0 {
		o.BoostIncrement = 0.15
	}
	if o.BoostCap <= 0 {
		o.BoostCap = 2.0
	}
	if o.RerankTimeout <= 0 {
		o.RerankTimeout = 15 * time.Second
	}
	if o.FacetSample <= 0 {
		o.FacetSample = domsearch.FacetSampleSize
	}
}

// Service orchestrates one search request end to end.
type Service struct {
	repo   Repository
	meta   RegistryLoader
	embed  domain.Embedder
	rerank *reranker
	opts   Options
	logger *zap.Logger
}

// New creates a search service. Reranker may be nil; rerank requests are
// then served in vector order. A nil embedder puts the service into
// permanent degraded mode (every query yields an empty page).
func New(
	repo Repository, meta RegistryLoader, embed domain.Embedder,
	rr domain.Reranker, opts Options, logger *zap.Logger,
) *Service {
	opts.withDefaults()
	s := &Service{repo: repo, meta: meta, embed: embed, opts: opts, logger: logger}
	if rr != nil {
		s.rerank = newReranker(rr, opts.RerankProvider, opts.RerankTimeout, logger)
	}
	return s
}

// Search runs the full pipeline and always returns a well-formed page.
func (s *Service) Search(ctx context.Context, req *domsearch.Request) (domsearch.Page, error) {
	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	req.Normalize()

	reg, err := s.meta.LoadRegistry(ctx)
	if err != nil {
		return domsearch.Page{}, fmt.Errorf("load metadata registry: %w", err)
	}

	filters := reg.Resolve(req.Filters).And(
		domsearch.PlatformClause(req.Platform),
		domsearch.CategoryClause(req.Category),
	)

	if s.embed == nil {
		metrics.SearchRequestsTotal.WithLabelValues("degraded").Inc()
		return domsearch.Paginate(nil, req.Page, req.PageSize, nil), nil
	}
	emb, err := s.embed.Embed(ctx, req.Query)
	if err != nil {
		s.logger.Warn("query embedding failed, serving empty page", zap.Error(err))
		metrics.SearchRequestsTotal.WithLabelValues("degraded").Inc()
		return domsearch.Paginate(nil, req.Page, req.PageSize, nil), nil
	}

	candidates, err := s.repo.SearchKNN(ctx, emb.Embedding, filters, req.Limit, reg)
	if err != nil {
		return domsearch.Page{}, fmt.Errorf("search knn: %w", err)
	}

	if req.Boost {
		boostCandidates(candidates, req.Query, reg, s.opts.BoostIncrement, s.opts.BoostCap)
	}
	sortCandidates(candidates)

	if req.Rerank && s.rerank != nil {
		candidates = s.rerank.apply(ctx, req.Query, candidates, req.RerankTopK)
	}

	var facets domsearch.Facets
	if req.Facets {
		facets, err = s.facets(ctx, filters, reg)
		if err != nil {
			s.logger.Warn("facet computation failed", zap.Error(err))
			facets = nil
		}
	}

	page := domsearch.Paginate(candidates, req.Page, req.PageSize, facets)

	status := "ok"
	if page.Total == 0 {
		status = "empty"
	}
	metrics.SearchRequestsTotal.WithLabelValues(status).Inc()
	return page, nil
}

// sortCandidates orders by boosted score, breaking ties by vector distance
// and finally by id so equal candidates page deterministically.
func sortCandidates(candidates []domsearch.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].ID < candidates[j].ID
	})
}

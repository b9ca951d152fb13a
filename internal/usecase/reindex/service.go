// Package reindex runs background jobs that recompose entry documents,
// optionally refresh listing enrichment, and rewrite embeddings. A job
// grinds through its entries one by one: a broken entry is counted and
// skipped, never fatal. Only conditions that make the whole run pointless
// (no provider, no entry listing) fail a job.
package reindex

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bayanapps/dalil/internal/compose"
	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/job"
	"github.com/bayanapps/dalil/internal/domain/metadata"
	"github.com/bayanapps/dalil/internal/metrics"
)

// listPageSize bounds one id-listing round trip when walking the catalog.
const listPageSize = 200

// Options tunes job pacing. Pauses keep a reindex run from saturating the
// embedding provider's rate limits; zero disables them.
type Options struct {
	BatchSize  int
	EntryPause time.Duration
	BatchPause time.Duration
	// StalenessMaxAge is how old cached enrichment may grow before a crawl
	// request refreshes it.
	StalenessMaxAge time.Duration
}

func (o *Options) withDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 10
	}
	if o.StalenessMaxAge <= 0 {
		o.StalenessMaxAge = 30 * 24 * time.Hour
	}
}

// StartRequest scopes one reindex run.
type StartRequest struct {
	// EntryIDs limits the run to specific entries; empty means the whole
	// published catalog.
	EntryIDs []string
	// Crawl refreshes listing enrichment when the cached text is stale.
	Crawl bool
	// Force refreshes enrichment even when fresh. Implies Crawl.
	Force bool
	// Quick composes the short document without full descriptions.
	Quick bool
	// BatchSize overrides the configured batch size when positive.
	BatchSize int
}

// Coordinator starts and tracks reindex jobs.
type Coordinator struct {
	entries EntryRepository
	jobs    JobStore
	meta    RegistryLoader
	embed   domain.Embedder
	fetch   Fetcher
	opts    Options
	logger  *zap.Logger

	wg sync.WaitGroup
}

// New creates a reindex coordinator. Fetcher may be nil; crawl requests are
// then served without enrichment.
func New(
	entries EntryRepository, jobs JobStore, meta RegistryLoader,
	embed domain.Embedder, fetch Fetcher, opts Options, logger *zap.Logger,
) *Coordinator {
	opts.withDefaults()
	return &Coordinator{
		entries: entries, jobs: jobs, meta: meta,
		embed: embed, fetch: fetch, opts: opts, logger: logger,
	}
}

// Start creates a job and launches it in the background. The returned job is
// in pending state; poll Job for progress.
func (c *Coordinator) Start(ctx context.Context, req StartRequest) (*job.Job, error) {
	j := &job.Job{
		ID:        uuid.NewString(),
		State:     job.Pending,
		StartedAt: time.Now().UTC(),
	}
	if err := c.jobs.Save(ctx, j); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		// Detached from the request context: the job outlives the HTTP call.
		c.run(context.Background(), *j, req)
	}()

	return j, nil
}

// Job returns the stored state of one job.
func (c *Coordinator) Job(ctx context.Context, id string) (*job.Job, error) {
	return c.jobs.Get(ctx, id)
}

// Wait blocks until all running jobs finish. Used on shutdown.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) run(ctx context.Context, j job.Job, req StartRequest) {
	log := c.logger.With(zap.String("job_id", j.ID))

	if c.embed == nil {
		c.fail(ctx, &j, log, fmt.Errorf("no embedding provider configured: %w", domain.ErrProviderUnavailable))
		return
	}

	reg, err := c.meta.LoadRegistry(ctx)
	if err != nil {
		c.fail(ctx, &j, log, fmt.Errorf("load metadata registry: %w", err))
		return
	}

	ids := req.EntryIDs
	if len(ids) == 0 {
		ids, err = c.listAllIDs(ctx)
		if err != nil {
			c.fail(ctx, &j, log, fmt.Errorf("list entries: %w", err))
			return
		}
	}

	j.State = job.Running
	j.Total = len(ids)
	c.saveProgress(ctx, &j, log)
	log.Info("reindex started",
		zap.Int("total", j.Total),
		zap.Bool("crawl", req.Crawl || req.Force),
		zap.Bool("quick", req.Quick))

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = c.opts.BatchSize
	}

	for i, id := range ids {
		j.CurrentEntry = id
		if err := c.processEntry(ctx, &j, id, reg, req); err != nil {
			j.Errors++
			metrics.ReindexEntriesTotal.WithLabelValues("error").Inc()
			log.Warn("entry reindex failed", zap.String("entry_id", id), zap.Error(err))
		} else {
			j.Processed++
			metrics.ReindexEntriesTotal.WithLabelValues("ok").Inc()
		}
		c.saveProgress(ctx, &j, log)

		if i+1 == len(ids) {
			break
		}
		sleep(ctx, c.opts.EntryPause)
		if batchSize > 0 && (i+1)%batchSize == 0 {
			sleep(ctx, c.opts.BatchPause)
		}
	}

	j.State = job.Completed
	j.CurrentEntry = ""
	j.FinishedAt = time.Now().UTC()
	j.Message = fmt.Sprintf("processed %d entries, %d errors, %d enriched",
		j.Processed, j.Errors, j.Enriched)
	c.saveProgress(ctx, &j, log)
	metrics.ReindexJobsTotal.WithLabelValues("completed").Inc()
	log.Info("reindex completed",
		zap.Int("processed", j.Processed),
		zap.Int("errors", j.Errors),
		zap.Int("enriched", j.Enriched))
}

// processEntry recomposes and re-embeds one entry. Enrichment failures are
// soft: the entry proceeds on whatever cached text it has.
func (c *Coordinator) processEntry(
	ctx context.Context, j *job.Job, id string,
	reg metadata.Registry, req StartRequest,
) error {
	e, err := c.entries.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}

	now := time.Now().UTC()
	if c.fetch != nil && (req.Crawl || req.Force) &&
		(req.Force || e.EnrichmentStale(now, c.opts.StalenessMaxAge)) {
		text, ferr := c.fetch.Fetch(ctx, &e)
		if ferr != nil {
			c.logger.Warn("enrichment fetch failed, using cached text",
				zap.String("entry_id", id), zap.Error(ferr))
		} else if text != "" {
			if serr := c.entries.SaveEnrichment(ctx, id, text, now); serr != nil {
				return fmt.Errorf("save enrichment: %w", serr)
			}
			e.EnrichedText = text
			e.EnrichedAt = now
			j.Enriched++
			metrics.ReindexEntriesTotal.WithLabelValues("enriched").Inc()
		}
	}

	doc := compose.Document(&e, reg, compose.Options{
		Complete:   !req.Quick,
		Enrichment: e.EnrichedText,
	})

	res, err := c.embed.Embed(ctx, doc)
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}
	if err := c.entries.SaveEmbedding(ctx, id, res.Embedding); err != nil {
		return fmt.Errorf("save embedding: %w", err)
	}
	return nil
}

func (c *Coordinator) listAllIDs(ctx context.Context) ([]string, error) {
	var all []string
	for offset := 0; ; offset += listPageSize {
		ids, total, err := c.entries.ListIDs(ctx, true, offset, listPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, ids...)
		if len(ids) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func (c *Coordinator) fail(ctx context.Context, j *job.Job, log *zap.Logger, err error) {
	j.State = job.Failed
	j.Message = err.Error()
	j.FinishedAt = time.Now().UTC()
	c.saveProgress(ctx, j, log)
	metrics.ReindexJobsTotal.WithLabelValues("failed").Inc()
	log.Error("reindex failed", zap.Error(err))
}

// saveProgress persists job state. Progress writes are best effort: a job
// keeps running even when its status records lag.
func (c *Coordinator) saveProgress(ctx context.Context, j *job.Job, log *zap.Logger) {
	if err := c.jobs.Save(ctx, j); err != nil {
		log.Warn("job progress save failed", zap.Error(err))
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

package reindex

import (
	"context"
	"time"

	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/job"
	"github.com/bayanapps/dalil/internal/domain/metadata"
)

// EntryRepository defines the storage contract for reindexing.
type EntryRepository interface {
	Get(ctx context.Context, id string) (domain.Entry, error)
	ListIDs(ctx context.Context, publishedOnly bool, offset, limit int) ([]string, int, error)
	SaveEmbedding(ctx context.Context, id string, vector []float32) error
	SaveEnrichment(ctx context.Context, id, text string, at time.Time) error
}

// JobStore persists job progress so status polling survives restarts.
type JobStore interface {
	Save(ctx context.Context, j *job.Job) error
	Get(ctx context.Context, id string) (*job.Job, error)
}

// RegistryLoader loads the active metadata vocabulary snapshot.
type RegistryLoader interface {
	LoadRegistry(ctx context.Context) (metadata.Registry, error)
}

// Fetcher crawls store listings for enrichment text.
type Fetcher interface {
	Fetch(ctx context.Context, e *domain.Entry) (string, error)
}

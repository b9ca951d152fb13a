package health

import "context"

// DBPinger checks store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// EntryCounter reports the searchable catalog size, proving the index exists.
type EntryCounter interface {
	CountPublished(ctx context.Context) (int, error)
}

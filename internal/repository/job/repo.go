// Package job persists reindex job progress so status polling survives the
// process that runs the job. Jobs expire after a retention window; a missing
// hash means the job never existed or aged out, and both read the same.
package job

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/job"
)

// store is the consumer interface for job persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Repo stores reindex jobs as expiring hashes.
type Repo struct {
	store store
	ttl   time.Duration
}

func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

const (
	fieldState        = "state"
	fieldTotal        = "total"
	fieldProcessed    = "processed"
	fieldErrors       = "errors"
	fieldEnriched     = "enriched"
	fieldCurrentEntry = "current_entry"
	fieldMessage      = "message"
	fieldStartedAt    = "started_at"
	fieldFinishedAt   = "finished_at"
)

func jobKey(id string) string { return domain.KeyPrefix + "job:" + id }

// Save writes the full job snapshot and refreshes its expiry. Progress
// updates overwrite the previous snapshot; there is no history.
func (r *Repo) Save(ctx context.Context, j *job.Job) error {
	if j.ID == "" {
		return fmt.Errorf("job id is required")
	}
	fields := map[string]string{
		fieldState:        string(j.State),
		fieldTotal:        strconv.Itoa(j.Total),
		fieldProcessed:    strconv.Itoa(j.Processed),
		fieldErrors:       strconv.Itoa(j.Errors),
		fieldEnriched:     strconv.Itoa(j.Enriched),
		fieldCurrentEntry: j.CurrentEntry,
		fieldMessage:      j.Message,
		fieldStartedAt:    formatTime(j.StartedAt),
		fieldFinishedAt:   formatTime(j.FinishedAt),
	}
	key := jobKey(j.ID)
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("save job %s: %w", j.ID, err)
	}
	if err := r.store.Expire(ctx, key, r.ttl); err != nil {
		return fmt.Errorf("expire job %s: %w", j.ID, err)
	}
	return nil
}

// Get loads a job snapshot by ID.
func (r *Repo) Get(ctx context.Context, id string) (*job.Job, error) {
	fields, err := r.store.HGetAll(ctx, jobKey(id))
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrJobNotFound
	}

	j := &job.Job{
		ID:           id,
		State:        job.State(fields[fieldState]),
		CurrentEntry: fields[fieldCurrentEntry],
		Message:      fields[fieldMessage],
	}
	j.Total, _ = strconv.Atoi(fields[fieldTotal])
	j.Processed, _ = strconv.Atoi(fields[fieldProcessed])
	j.Errors, _ = strconv.Atoi(fields[fieldErrors])
	j.Enriched, _ = strconv.Atoi(fields[fieldEnriched])
	j.StartedAt = parseTime(fields[fieldStartedAt])
	j.FinishedAt = parseTime(fields[fieldFinishedAt])
	return j, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Package job holds the reindex job state machine types.
package job

import "time"

// State is the lifecycle state of a reindex job.
type State string

const (
	// Pending jobs are created but not yet started.
	Pending State = "pending"
	// Running jobs are processing entries.
	Running State = "running"
	// Completed jobs processed every entry, per-entry errors included.
	Completed State = "completed"
	// Failed jobs hit a job-level fatal condition (e.g. no provider).
	Failed State = "failed"
)

// Job tracks one background reindexing run. It lives in the shared job store
// so status polling works behind multiple workers.
type Job struct {
	ID           string
	State        State
	Total        int
	Processed    int
	Errors       int
	Enriched     int
	CurrentEntry string
	Message      string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Percent returns job progress as 0-100.
func (j *Job) Percent() int {
	if j.Total == 0 {
		return 0
	}
	done := j.Processed + j.Errors
	return done * 100 / j.Total
}

package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates search runs with reduced quality (provider down,
	// index unreadable). The store itself is still reachable.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is down; no request can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Entries int
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	entries   EntryCounter
}

// New creates a Service. embedding and entries can be nil.
func New(db DBPinger, embedding EmbeddingChecker, entries EntryCounter) *Service {
	return &Service{db: db, embedding: embedding, entries: entries}
}

// Check runs health checks against all components. A store failure is total:
// search degrades gracefully around a missing provider but not around a
// missing store.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	dbDown := false
	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		dbDown = true
	} else {
		checks["database"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	entryCount := 0
	if s.entries != nil && !dbDown {
		if n, err := s.entries.CountPublished(ctx); err != nil {
			checks["index"] = CheckError
		} else {
			checks["index"] = CheckOK
			entryCount = n
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if dbDown {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, Entries: entryCount}
}

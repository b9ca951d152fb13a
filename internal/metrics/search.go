package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline and reindex job metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dalil",
			Name:      "search_requests_total",
			Help:      "Total search requests by outcome",
		},
		[]string{"status"}, // "ok" / "empty" / "degraded"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dalil",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search pipeline duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	ReindexEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dalil",
			Name:      "reindex_entries_total",
			Help:      "Entries processed by reindex jobs, by outcome",
		},
		[]string{"status"}, // "ok" / "error" / "enriched"
	)

	ReindexJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dalil",
			Name:      "reindex_jobs_total",
			Help:      "Reindex jobs by terminal state",
		},
		[]string{"state"}, // "completed" / "failed"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and reindex metrics.
// Must be called once from main (no init()).
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ReindexEntriesTotal)
	prometheus.MustRegister(ReindexJobsTotal)
	searchMetricsRegistered = true
}

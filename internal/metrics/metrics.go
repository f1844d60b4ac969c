package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventradar_runs_total",
		Help: "Total number of discovery runs started.",
	})

	SearchQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventradar_search_queries_total",
		Help: "Total number of web search queries issued.",
	})

	SearchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventradar_search_errors_total",
		Help: "Total number of failed web search queries.",
	})

	CandidatesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventradar_candidates_extracted_total",
		Help: "Total number of candidate events produced by extraction.",
	})

	CandidatesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventradar_candidates_accepted_total",
		Help: "Total number of candidates accepted without correction.",
	})

	CandidatesCorrected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventradar_candidates_corrected_total",
		Help: "Total number of candidates accepted after correction.",
	})

	CandidatesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventradar_candidates_rejected_total",
		Help: "Total number of rejected candidates, labelled by reason.",
	}, []string{"reason"})

	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventradar_pages_fetched_total",
		Help: "Total number of page fetches attempted during validation.",
	})

	FetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventradar_page_fetch_errors_total",
		Help: "Total number of failed page fetches.",
	})

	EventsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventradar_events_deleted_total",
		Help: "Total number of stored events removed, labelled by reason.",
	}, []string{"reason"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventradar_run_duration_seconds",
		Help:    "End-to-end discovery run duration in seconds.",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
	})
)

// Package metrics provides Prometheus metrics for the thesis manager.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks API requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesis_manager",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks API request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thesis_manager",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// ImportRowsTotal tracks CSV import rows by outcome
	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesis_manager",
			Subsystem: "importer",
			Name:      "rows_total",
			Help:      "Total number of imported CSV rows by outcome",
		},
		[]string{"outcome"},
	)

	// ImportDecisionsTotal tracks decisions requested from the operator
	ImportDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesis_manager",
			Subsystem: "importer",
			Name:      "decisions_total",
			Help:      "Total number of operator decisions by kind and choice",
		},
		[]string{"kind", "choice"},
	)

	// MatchScoreDistribution tracks candidate match scores
	MatchScoreDistribution = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thesis_manager",
			Subsystem: "matching",
			Name:      "score",
			Help:      "Distribution of candidate match scores",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99, 1},
		},
		[]string{"entity"},
	)

	// ReportGenerationsTotal tracks weekly report runs by status
	ReportGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesis_manager",
			Subsystem: "reporter",
			Name:      "generations_total",
			Help:      "Total number of weekly report generations by status",
		},
		[]string{"status"},
	)

	// GitLabRequestDuration tracks GitLab API call duration
	GitLabRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thesis_manager",
			Subsystem: "gitlab",
			Name:      "request_duration_seconds",
			Help:      "Duration of GitLab API requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// DatabaseQueryDuration tracks database query duration
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thesis_manager",
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequest records an API request metric
func RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordImportRow records the outcome of one imported CSV row
func RecordImportRow(outcome string) {
	ImportRowsTotal.WithLabelValues(outcome).Inc()
}

// RecordImportDecision records an operator decision
func RecordImportDecision(kind, choice string) {
	ImportDecisionsTotal.WithLabelValues(kind, choice).Inc()
}

// RecordMatchScore records a candidate match score
func RecordMatchScore(entity string, score float64) {
	MatchScoreDistribution.WithLabelValues(entity).Observe(score)
}

// RecordReportGeneration records a weekly report run
func RecordReportGeneration(status string) {
	ReportGenerationsTotal.WithLabelValues(status).Inc()
}

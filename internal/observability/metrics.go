package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlask_http_requests_total",
			Help: "Total number of HTTP requests by route pattern.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlask_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern. Ask requests include both model round trips.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"method", "route", "status"},
	)

	pipelineStageDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlask_pipeline_stage_duration_seconds",
			Help:    "Latency of pipeline stages by stage and outcome.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"stage", "outcome"},
	)
	pipelineErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlask_pipeline_errors_total",
			Help: "Total number of failed pipeline invocations by error kind.",
		},
		[]string{"kind"},
	)
	pipelineAnswersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlask_pipeline_answers_total",
			Help: "Total number of questions answered successfully.",
		},
	)
	completionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlask_completion_requests_total",
			Help: "Total number of completion provider calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)
	queryRowsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sqlask_query_rows_returned",
			Help:    "Number of rows returned by generated queries.",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		pipelineStageDurationSeconds,
		pipelineErrorsTotal,
		pipelineAnswersTotal,
		completionRequestsTotal,
		queryRowsReturned,
	)
}

func ObserveStage(stage string, err error, elapsed time.Duration) {
	pipelineStageDurationSeconds.WithLabelValues(stage, outcome(err)).Observe(elapsed.Seconds())
}

func ObservePipelineResult(errKind string) {
	if errKind == "" {
		pipelineAnswersTotal.Inc()
		return
	}
	pipelineErrorsTotal.WithLabelValues(errKind).Inc()
}

func ObserveCompletion(provider string, err error) {
	completionRequestsTotal.WithLabelValues(provider, outcome(err)).Inc()
}

func ObserveQueryRows(rows int) {
	if rows < 0 {
		rows = 0
	}
	queryRowsReturned.Observe(float64(rows))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	evaluationsTotal        *prometheus.CounterVec
	evaluationSeconds       prometheus.Histogram
	pagesProcessedTotal     prometheus.Counter
	malformedPagesTotal     prometheus.Counter
	scoreParseFailuresTotal prometheus.Counter
	httpRequestsTotal       *prometheus.CounterVec
	httpLatencySeconds      *prometheus.HistogramVec
	httpErrorsTotal         *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the
// evaluation pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradescan_evaluations_total",
			Help: "Total number of answer-sheet evaluation runs by outcome.",
		}, []string{"outcome"})

		evaluationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gradescan_evaluation_duration_seconds",
			Help:    "End-to-end duration of answer-sheet evaluation runs.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		})

		pagesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradescan_pages_processed_total",
			Help: "Total number of pages handed to text extraction.",
		})

		malformedPagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradescan_malformed_pages_total",
			Help: "Pages whose recognition result was missing expected fields.",
		})

		scoreParseFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradescan_score_parse_failures_total",
			Help: "Scoring responses that could not be parsed as a number.",
		})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradescan_http_requests_total",
			Help: "Total number of HTTP requests handled by the API.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradescan_http_request_duration_seconds",
			Help:    "Latency of HTTP requests handled by the API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradescan_http_errors_total",
			Help: "Total number of HTTP requests that resulted in an error response.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(
			evaluationsTotal,
			evaluationSeconds,
			pagesProcessedTotal,
			malformedPagesTotal,
			scoreParseFailuresTotal,
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
		)
	})
}

// Evaluations exposes the evaluation outcome counter.
func Evaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}

// EvaluationDuration exposes the evaluation duration histogram.
func EvaluationDuration() prometheus.Histogram {
	RegisterMetrics()
	return evaluationSeconds
}

// PagesProcessed exposes the processed-pages counter.
func PagesProcessed() prometheus.Counter {
	RegisterMetrics()
	return pagesProcessedTotal
}

// MalformedPages exposes the malformed-page counter.
func MalformedPages() prometheus.Counter {
	RegisterMetrics()
	return malformedPagesTotal
}

// ScoreParseFailures exposes the score parse failure counter.
func ScoreParseFailures() prometheus.Counter {
	RegisterMetrics()
	return scoreParseFailuresTotal
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

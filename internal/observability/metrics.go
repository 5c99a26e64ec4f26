package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	analysisRunsTotal     *prometheus.CounterVec
	analysisRequestsTotal *prometheus.CounterVec
	analysisLatency       prometheus.Histogram
	transcriptionRejected *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leetpro_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leetpro_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leetpro_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		analysisRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leetpro_analysis_runs_total",
			Help: "Outcomes of rubric scoring pipeline runs.",
		}, []string{"outcome"})

		analysisRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leetpro_analysis_requests_total",
			Help: "Analysis lookups by whether the result was computed or memoized.",
		}, []string{"source"})

		analysisLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leetpro_analysis_duration_seconds",
			Help:    "Duration of full rubric scoring pipeline runs.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		})

		transcriptionRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leetpro_transcription_rejected_total",
			Help: "Uploads rejected before reaching the transcription provider.",
		}, []string{"reason"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			analysisRunsTotal,
			analysisRequestsTotal,
			analysisLatency,
			transcriptionRejected,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AnalysisRuns exposes the counter for scoring pipeline outcomes.
func AnalysisRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return analysisRunsTotal
}

// AnalysisRequests exposes the counter for analysis lookups.
func AnalysisRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return analysisRequestsTotal
}

// AnalysisLatency exposes the histogram for full pipeline runs.
func AnalysisLatency() prometheus.Histogram {
	RegisterMetrics()
	return analysisLatency
}

// TranscriptionRejected exposes the counter for rejected uploads.
func TranscriptionRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return transcriptionRejected
}

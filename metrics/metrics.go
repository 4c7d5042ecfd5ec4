package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalyzeTotal counts analysis calls by outcome
	// (report, fallback, no_issue, or an error code such as config_error).
	AnalyzeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "municipal",
		Subsystem: "analyzer",
		Name:      "analyze_total",
		Help:      "Total number of image analysis calls, labeled by outcome.",
	}, []string{"outcome"})

	// AnalyzeDurationSeconds is end-to-end time per analysis call.
	AnalyzeDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "municipal",
		Subsystem: "analyzer",
		Name:      "analyze_duration_seconds",
		Help:      "End-to-end time to analyze one image (load + model call + normalize).",
		// Keep buckets fairly coarse to avoid high-cardinality time series.
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60},
	}, []string{"outcome"})

	// ModelCallDurationSeconds is time spent inside the provider call.
	ModelCallDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "municipal",
		Subsystem: "analyzer",
		Name:      "model_call_duration_seconds",
		Help:      "Time spent waiting for the vision model completion.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 60},
	})

	// PublishErrorTotal counts failed publishes of analyzed reports.
	PublishErrorTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "municipal",
		Subsystem: "analyzer",
		Name:      "publish_error_total",
		Help:      "Total number of analyzed-report publish errors.",
	})
)

// Register registers analyzer metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalyzeTotal,
			AnalyzeDurationSeconds,
			ModelCallDurationSeconds,
			PublishErrorTotal,
		)
	})
}

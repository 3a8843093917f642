package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "salescharts"
)

var (
	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "render", "duration_seconds"),
		Help:    "Duration of chart rendering in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"library"})
	RenderSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "render", "skipped_total"),
		Help: "Renders skipped because the library binding or the target container was unavailable",
	}, []string{"library", "reason"})
	DatasetObservations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "dataset", "observations"),
		Help:    "Number of observations per generated dashboard",
		Buckets: prometheus.ExponentialBuckets(16, 4, 8),
	})
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "report", "generated_total"),
		Help: "Number of dashboard reports generated",
	}, []string{"status"})
)

// Skip reasons
const (
	ReasonNoBinding   = "binding_unavailable"
	ReasonNoContainer = "container_missing"
	ReasonFailed      = "library_error"
)

// Report outcomes
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ObserveRender records how long a render for library took.
func ObserveRender(library string, start time.Time) {
	RenderDuration.WithLabelValues(library).Observe(time.Since(start).Seconds())
}

// CountSkip records a render that produced no chart.
func CountSkip(library, reason string) {
	RenderSkipped.WithLabelValues(library, reason).Inc()
}

// ObserveDataset records the size of a dataset handed to the renderers.
func ObserveDataset(n int) {
	DatasetObservations.Observe(float64(n))
}

// CountReport records a finished report generation.
func CountReport(status string) {
	ReportsGenerated.WithLabelValues(status).Inc()
}

package build

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks build outcomes for the serve endpoint.
type Metrics struct {
	builds   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	items    prometheus.Gauge
}

// NewMetrics registers the build collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ferrisdoc",
			Name:      "artifact_builds_total",
			Help:      "Artifact builds by artifact and result.",
		}, []string{"artifact", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ferrisdoc",
			Name:      "artifact_build_duration_seconds",
			Help:      "Time spent building each artifact.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"artifact"}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ferrisdoc",
			Name:      "documented_items",
			Help:      "Resources in the most recent data.json.",
		}),
	}
	reg.MustRegister(m.builds, m.duration, m.items)
	return m
}

func (m *Metrics) observe(a Artifact, took time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.builds.WithLabelValues(string(a), result).Inc()
	m.duration.WithLabelValues(string(a)).Observe(took.Seconds())
}

func (m *Metrics) setItems(n int) {
	if m == nil {
		return
	}
	m.items.Set(float64(n))
}

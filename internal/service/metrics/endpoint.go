package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Endpoint tracks latency and failures of the analysis endpoints by the
// kind of failure the client saw.
type Endpoint struct {
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
}

func NewEndpoint(reg prometheus.Registerer) *Endpoint {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Endpoint{
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "truthsource",
			Subsystem: "analysis",
			Name:      "latency_seconds",
			Help:      "Latency of analysis endpoints",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"endpoint"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truthsource",
			Subsystem: "analysis",
			Name:      "errors_total",
			Help:      "Errors by analysis endpoint and kind",
		}, []string{"endpoint", "kind"}),
	}
}

func (m *Endpoint) Observe(endpoint string, d time.Duration) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Endpoint) Error(endpoint, kind string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(endpoint, kind).Inc()
}

// ErrorCounter exposes one error series, for tests and diagnostics.
func (m *Endpoint) ErrorCounter(endpoint, kind string) prometheus.Counter {
	return m.errors.WithLabelValues(endpoint, kind)
}

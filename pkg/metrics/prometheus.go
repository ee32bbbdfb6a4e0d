package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the domain Metrics port using Prometheus.
type Recorder struct {
	pipelineDuration *prometheus.HistogramVec
	oracleDuration   *prometheus.HistogramVec
	fetchedRecords   *prometheus.CounterVec
	fetchFailures    *prometheus.CounterVec
	absorbed         *prometheus.CounterVec
	truncated        *prometheus.CounterVec
}

// New registers collectors on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		pipelineDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "truthsource",
				Name:      "pipeline_duration_seconds",
				Help:      "End-to-end analysis pipeline duration",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
			},
			[]string{"domain", "outcome"},
		),
		oracleDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "truthsource",
				Name:      "oracle_call_duration_seconds",
				Help:      "Oracle invocation latency",
				Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
			},
			[]string{"provider", "outcome"},
		),
		fetchedRecords: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "truthsource",
				Name:      "records_fetched_total",
				Help:      "Records returned by the record source",
			},
			[]string{"tag"},
		),
		fetchFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "truthsource",
				Name:      "record_fetch_failures_total",
				Help:      "Record fetches absorbed as empty results",
			},
			[]string{"tag"},
		),
		absorbed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "truthsource",
				Name:      "computation_failures_total",
				Help:      "Metric families dropped because of malformed input",
			},
			[]string{"family"},
		),
		truncated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "truthsource",
				Name:      "record_fetch_truncated_total",
				Help:      "Record fetches that hit the row cap",
			},
			[]string{"tag"},
		),
	}
}

func (r *Recorder) RecordPipeline(domain, outcome string, d time.Duration) {
	r.pipelineDuration.WithLabelValues(domain, outcome).Observe(d.Seconds())
}

func (r *Recorder) RecordOracleCall(provider, outcome string, d time.Duration) {
	r.oracleDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

func (r *Recorder) RecordFetch(tag string, records int, failed bool) {
	if failed {
		r.fetchFailures.WithLabelValues(tag).Inc()
		return
	}
	r.fetchedRecords.WithLabelValues(tag).Add(float64(records))
}

func (r *Recorder) RecordAbsorbed(family string) {
	r.absorbed.WithLabelValues(family).Inc()
}

func (r *Recorder) RecordTruncated(tag string) {
	r.truncated.WithLabelValues(tag).Inc()
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordPipeline(string, string, time.Duration)   {}
func (Nop) RecordOracleCall(string, string, time.Duration) {}
func (Nop) RecordFetch(string, int, bool)                  {}
func (Nop) RecordAbsorbed(string)                          {}
func (Nop) RecordTruncated(string)                         {}

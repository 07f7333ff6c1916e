package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the projection service.
type Metrics struct {
	SimulationsTotal     *prometheus.CounterVec // labels: category
	ValidationFailures   *prometheus.CounterVec // labels: reason={category,delay}
	StructuralViolations prometheus.Counter
	SimulateDuration     prometheus.Histogram
	RecorderQueueDepth   prometheus.Gauge
	RecordsDropped       prometheus.Counter
	StreamSubscribers    prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		SimulationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consequence_mirror",
			Name:      "simulations_total",
			Help:      "Completed simulations by disaster category.",
		}, []string{"category"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "consequence_mirror",
			Name:      "validation_failures_total",
			Help:      "Rejected requests by reason.",
		}, []string{"reason"}),
		StructuralViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "consequence_mirror",
			Name:      "structural_violations_total",
			Help:      "Internal timeline invariant failures. Any nonzero value is a defect.",
		}),
		SimulateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "consequence_mirror",
			Name:      "simulate_duration_seconds",
			Help:      "Duration of one complete simulate call.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),
		RecorderQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "consequence_mirror",
			Name:      "recorder_queue_depth",
			Help:      "Projection records waiting in the history buffer.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "consequence_mirror",
			Name:      "records_dropped_total",
			Help:      "History records dropped on buffer overflow.",
		}),
		StreamSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "consequence_mirror",
			Name:      "stream_subscribers",
			Help:      "Currently connected SSE subscribers.",
		}),
	}
}

// NewMetrics creates and registers all instruments with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SimulationsTotal,
		m.ValidationFailures,
		m.StructuralViolations,
		m.SimulateDuration,
		m.RecorderQueueDepth,
		m.RecordsDropped,
		m.StreamSubscribers,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

package application

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ericfisherdev/adview/internal/domain/model"
)

// Metrics holds the Prometheus collectors for the prediction pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs             *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// NewMetrics creates the pipeline collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "adview",
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Prediction pipeline runs by outcome and error kind.",
			},
			[]string{"outcome", "error_kind"},
		),
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "adview",
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Calls to the identity and inference endpoints by result.",
			},
			[]string{"endpoint", "result"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "adview",
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Latency of calls to the identity and inference endpoints.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}

	for _, c := range []prometheus.Collector{m.runs, m.upstreamRequests, m.upstreamDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observeRun(outcome model.Outcome, kind model.ErrorKind) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(outcome), string(kind)).Inc()
}

// observeUpstream records one upstream call. endpoint is "identity" or "inference".
func (m *Metrics) observeUpstream(endpoint string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(errorKind(err))
	}
	m.upstreamRequests.WithLabelValues(endpoint, result).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

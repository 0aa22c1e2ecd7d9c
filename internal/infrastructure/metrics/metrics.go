package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the Prometheus collectors of the service
type Metrics struct {
	ReqTotal      *prometheus.CounterVec
	ReqDur        *prometheus.HistogramVec
	InFlight      prometheus.Gauge
	Extractions   *prometheus.CounterVec
	ExtractionDur *prometheus.HistogramVec
}

// New registers and returns the collectors. A nil registerer uses the default one.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 10000},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		Extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "AI extraction calls by kind (product, list) and outcome.",
		}, []string{"kind", "outcome"}),
		ExtractionDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_ms",
			Help:      "AI extraction latency in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 2500, 5000, 10000, 30000},
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.ReqTotal, m.ReqDur, m.InFlight, m.Extractions, m.ExtractionDur} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			panic(fmt.Errorf("register collector: %w", err))
		}
	}
	return m
}

// ObserveExtraction records one extraction call.
func (m *Metrics) ObserveExtraction(kind, outcome string, duration time.Duration) {
	m.Extractions.WithLabelValues(kind, outcome).Inc()
	if outcome != "cache_hit" {
		m.ExtractionDur.WithLabelValues(kind).Observe(DurationMillis(duration))
	}
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

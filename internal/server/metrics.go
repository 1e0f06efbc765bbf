package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	Requests   *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Iterations prometheus.Histogram
	Cache      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gonewton_solve_requests_total",
				Help: "Total number of root-finding requests by outcome",
			},
			[]string{"transport", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gonewton_solve_duration_seconds",
				Help:    "Duration of root-finding requests",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"transport"},
		),
		Iterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gonewton_solve_iterations",
				Help:    "Newton steps taken per completed run",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1000},
			},
		),
		Cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gonewton_cache_lookups_total",
				Help: "Result cache lookups by outcome",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.Requests, m.Duration, m.Iterations, m.Cache)
	return m
}

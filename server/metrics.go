package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "thermcast",
		Subsystem: "predict",
		Name:      "requests_total",
		Help:      "Total prediction requests by outcome",
	}, []string{"status"})

	predictionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "thermcast",
		Subsystem: "predict",
		Name:      "failures_total",
		Help:      "Failed prediction requests by failure kind",
	}, []string{"kind"})

	predictionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "thermcast",
		Subsystem: "predict",
		Name:      "request_duration_seconds",
		Help:      "End-to-end prediction request duration",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})
)

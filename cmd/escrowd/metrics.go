package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	txTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "escrowd_tx_total",
		Help: "Number of processed transactions by path and result.",
	}, []string{"path", "result"})

	txDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "escrowd_tx_duration_seconds",
		Help:    "Transaction processing time by path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
)

func observeTx(path string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "err"
	}
	txTotal.WithLabelValues(path, result).Inc()
	txDuration.WithLabelValues(path).Observe(seconds)
}

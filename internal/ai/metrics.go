package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storybook_ai_requests_total",
			Help: "Total number of requests to the generative API.",
		},
		[]string{"operation", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storybook_ai_request_duration_seconds",
			Help:    "Histogram of generative API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// observe записывает метрики одного вызова генеративного API.
func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	aiRequestsTotal.WithLabelValues(operation, status).Inc()
	aiRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

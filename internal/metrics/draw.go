package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	drawTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draw_requests_total",
			Help: "Total draw operations by result and phase",
		},
		[]string{"result", "phase"},
	)

	drawDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "draw_duration_ms",
			Help:    "Draw operation duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result", "phase"},
	)
)

// RecordDraw 记录开奖业务指标
// result: "success" | "fail"
// phase: "request" | "fulfill"
func RecordDraw(result, phase string, started time.Time) {
	res := result
	if res != "success" {
		res = "fail"
	}
	drawTotal.WithLabelValues(res, phase).Inc()
	drawDuration.WithLabelValues(res, phase).Observe(float64(time.Since(started).Milliseconds()))
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	claimTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_requests_total",
			Help: "Total reward claims by result and bracket",
		},
		[]string{"result", "bracket"},
	)

	claimPayout = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "claim_payout_units_total",
			Help: "Total payout in token base units",
		},
	)

	claimDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "claim_duration_ms",
			Help:    "Reward claim duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result"},
	)
)

// RecordClaim 记录领奖业务指标
// result: "success" | "fail"；bracket 为命中档位（失败时 -1）
func RecordClaim(result string, bracket int, payout int64, started time.Time) {
	res := result
	if res != "success" {
		res = "fail"
	}
	b := "none"
	if bracket >= 0 {
		b = itoa(bracket)
	}
	claimTotal.WithLabelValues(res, b).Inc()
	if payout > 0 {
		claimPayout.Add(float64(payout))
	}
	claimDuration.WithLabelValues(res).Observe(float64(time.Since(started).Milliseconds()))
}

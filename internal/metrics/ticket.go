package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_buy_requests_total",
			Help: "Total ticket purchase requests by result",
		},
		[]string{"result"},
	)

	buyTickets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Total tickets sold",
		},
	)

	buyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticket_buy_duration_ms",
			Help:    "Ticket purchase duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result"},
	)
)

// RecordBuy records business metrics for a batch purchase.
// result should be "success" or "fail"; count is tickets minted on success.
func RecordBuy(result string, count int, started time.Time) {
	res := result
	if res != "success" {
		res = "fail"
	}
	buyTotal.WithLabelValues(res).Inc()
	if res == "success" && count > 0 {
		buyTickets.Add(float64(count))
	}
	buyDuration.WithLabelValues(res).Observe(float64(time.Since(started).Milliseconds()))
}

func itoa(i int) string { return strconv.Itoa(i) }

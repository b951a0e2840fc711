// Package metrics exposes the Prometheus series the bot updates while
// deciding:
//   - bot_decisions_total{action}        – decisions by action (hold|close|open_long|open_short)
//   - bot_breaker_trips_total{breaker}   – circuit breaker activations by gate
//   - bot_balance_usd                    – last observed account balance (gauge)
//   - bot_trades_today                   – realized closes so far today (gauge)
//   - bot_tick_duration_seconds          – decision latency histogram
//
// Registered in init() and served at /metrics in text exposition format.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mtxDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_decisions_total",
			Help: "Decisions taken, by action",
		},
		[]string{"action"},
	)

	mtxBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_breaker_trips_total",
			Help: "Circuit breaker activations, by gate",
		},
		[]string{"breaker"},
	)

	mtxBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_balance_usd",
			Help: "Last observed account balance in USD",
		},
	)

	mtxTradesToday = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_trades_today",
			Help: "Realized closes so far in the current session",
		},
	)

	mtxTickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_tick_duration_seconds",
			Help:    "Decision evaluation latency",
			Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(mtxDecisions, mtxBreakerTrips, mtxBalance, mtxTradesToday, mtxTickDuration)
}

// DecisionTaken counts one decision under its lowercased action label.
func DecisionTaken(action string) {
	mtxDecisions.WithLabelValues(strings.ToLower(action)).Inc()
}

// BreakerTrip counts one activation of the named gate.
func BreakerTrip(name string) {
	mtxBreakerTrips.WithLabelValues(name).Inc()
}

// ObserveTick records one tick's balance, trade count and latency.
func ObserveTick(balance float64, tradesToday int, d time.Duration) {
	mtxBalance.Set(balance)
	mtxTradesToday.Set(float64(tradesToday))
	mtxTickDuration.Observe(d.Seconds())
}

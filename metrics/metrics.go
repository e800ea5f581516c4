// Package metrics exposes the engine's Prometheus metrics:
//   - propdesk_orders_total{type,direction}   - orders placed
//   - propdesk_orders_cancelled_total         - resting orders cancelled
//   - propdesk_position_closes_total{reason}  - closes split by reason
//   - propdesk_open_positions                 - currently open positions
//   - propdesk_realized_pnl_total             - cumulative booked P&L
//   - propdesk_fees_paid_total                - cumulative fees
//   - propdesk_net_worth{account}             - latest account net worth
//   - propdesk_margin_used{account}           - latest margin in use
//   - propdesk_risk_ticks_total               - risk sweeps completed
//   - propdesk_risk_tick_errors_total         - per-position evaluation failures
//
// Registered in init() and served by `propdesk run` at /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propdesk_orders_total",
			Help: "Orders placed",
		},
		[]string{"type", "direction"},
	)

	ordersCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "propdesk_orders_cancelled_total",
			Help: "Resting orders cancelled",
		},
	)

	positionCloses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propdesk_position_closes_total",
			Help: "Position closes split by reason",
		},
		[]string{"reason"},
	)

	openPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "propdesk_open_positions",
			Help: "Currently open positions",
		},
	)

	realizedPnl = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "propdesk_realized_pnl_total",
			Help: "Cumulative realized P&L",
		},
	)

	feesPaid = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "propdesk_fees_paid_total",
			Help: "Cumulative fees paid",
		},
	)

	netWorth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "propdesk_net_worth",
			Help: "Latest account net worth",
		},
		[]string{"account"},
	)

	marginUsed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "propdesk_margin_used",
			Help: "Latest account margin in use",
		},
		[]string{"account"},
	)

	riskTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "propdesk_risk_ticks_total",
			Help: "Risk sweeps completed",
		},
	)

	riskTickErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "propdesk_risk_tick_errors_total",
			Help: "Per-position evaluation failures during risk sweeps",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ordersTotal,
		ordersCancelled,
		positionCloses,
		openPositions,
		realizedPnl,
		feesPaid,
		netWorth,
		marginUsed,
		riskTicks,
		riskTickErrors,
	)
}

func OrderPlaced(orderType, direction string) {
	ordersTotal.WithLabelValues(orderType, direction).Inc()
}

func OrderCancelled() {
	ordersCancelled.Inc()
}

func PositionOpened() {
	openPositions.Inc()
}

func FeeCharged(fee float64) {
	feesPaid.Add(fee)
}

func PositionClosed(reason string, pnl, fees float64) {
	positionCloses.WithLabelValues(reason).Inc()
	realizedPnl.Add(pnl)
	feesPaid.Add(fees)
	if reason != "partial" {
		openPositions.Dec()
	}
}

func SetAccountGauges(account string, worth, margin float64) {
	netWorth.WithLabelValues(account).Set(worth)
	marginUsed.WithLabelValues(account).Set(margin)
}

func RiskTick() {
	riskTicks.Inc()
}

func RiskTickError() {
	riskTickErrors.Inc()
}

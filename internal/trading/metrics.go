package trading

import (
	"github.com/prometheus/client_golang/prometheus"
)

// engineMetrics holds the prometheus instruments of one engine. Each
// engine owns its registry so several instances can coexist in tests.
type engineMetrics struct {
	registry *prometheus.Registry

	signalsTotal   *prometheus.CounterVec
	ordersTotal    *prometheus.CounterVec
	openPositions  prometheus.Gauge
	currentCapital prometheus.Gauge
	drawdown       prometheus.Gauge
}

func newEngineMetrics() *engineMetrics {
	m := &engineMetrics{
		registry: prometheus.NewRegistry(),
		signalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riptide_signals_total",
				Help: "Total number of trade signals generated, by symbol and side.",
			},
			[]string{"symbol", "side"},
		),
		ordersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riptide_orders_total",
				Help: "Total number of orders submitted, by symbol and event.",
			},
			[]string{"symbol", "event"},
		),
		openPositions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "riptide_open_positions",
				Help: "Current number of open positions.",
			},
		),
		currentCapital: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "riptide_current_capital",
				Help: "Current capital including unrealized PnL.",
			},
		),
		drawdown: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "riptide_drawdown",
				Help: "Current drawdown from the capital peak, as a fraction.",
			},
		),
	}

	m.registry.MustRegister(
		m.signalsTotal,
		m.ordersTotal,
		m.openPositions,
		m.currentCapital,
		m.drawdown,
	)

	return m
}

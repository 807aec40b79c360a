package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Strategy signals generated, by direction"},
		[]string{"signal"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders submitted to the brokerage"},
		[]string{"symbol", "side", "type"},
	)
	RejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rejections_total", Help: "Order candidates rejected before submission, by reason"},
		[]string{"reason"},
	)
	StaleCancellationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "stale_cancellations_total", Help: "Stale limit orders cancelled by the tracker"},
	)
	CycleErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cycle_errors_total", Help: "Trading cycles degraded by a collaborator failure"},
		[]string{"stage"},
	)
	NetWorth = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "net_worth", Help: "Latest observed account net worth"},
	)
	MaxDrawdown = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "max_drawdown", Help: "Largest peak-to-trough net worth decline this session"},
	)
)

func init() {
	prometheus.MustRegister(
		SignalsTotal,
		OrdersTotal,
		RejectionsTotal,
		StaleCancellationsTotal,
		CycleErrorsTotal,
		NetWorth,
		MaxDrawdown,
	)
}

// Serve exposes /metrics on the supplied address in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}

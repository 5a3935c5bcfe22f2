package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics は注文・決済まわりのカウンタ。
type Metrics struct {
	OrdersPlaced        prometheus.Counter
	OrdersExpired       prometheus.Counter
	PaymentsReconciled  *prometheus.CounterVec
	SimulatedPixCreated prometheus.Counter
}

// New はカウンタを登録して返す。テストでは prometheus.NewRegistry() を渡す。
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrofeira",
			Name:      "orders_placed_total",
			Help:      "Total number of orders placed.",
		}),
		OrdersExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrofeira",
			Name:      "orders_expired_total",
			Help:      "Total number of PIX orders cancelled by the expiry job.",
		}),
		PaymentsReconciled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrofeira",
			Name:      "payments_reconciled_total",
			Help:      "Payment status transitions applied from the gateway.",
		}, []string{"status"}),
		SimulatedPixCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrofeira",
			Name:      "simulated_pix_total",
			Help:      "PIX intents served by the local simulator.",
		}),
	}

	reg.MustRegister(m.OrdersPlaced, m.OrdersExpired, m.PaymentsReconciled, m.SimulatedPixCreated)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

package handler

import "github.com/prometheus/client_golang/prometheus"

var ordersTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "orders_total",
		Help: "Order requests by final outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(ordersTotal)
}

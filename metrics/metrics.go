package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "tiendeo"

// OrderMetrics tracks the order workflow. A nil *OrderMetrics is valid and records nothing.
type OrderMetrics struct {
	OrdersCreatedTotal      *prometheus.CounterVec
	OrdersCreatedAmount     *prometheus.CounterVec
	OrderTransitionsTotal   *prometheus.CounterVec
	ItemTransitionsTotal    *prometheus.CounterVec
	RejectedTransitionTotal *prometheus.CounterVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	factory := promauto.With(reg)
	return &OrderMetrics{
		OrdersCreatedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders placed by customers.",
		}, []string{"store", "delivery_type"}),
		OrdersCreatedAmount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_amount_total",
			Help:      "Sum of order totals at checkout.",
		}, []string{"store"}),
		OrderTransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Applied order status changes.",
		}, []string{"store", "from", "to"}),
		ItemTransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_item_transitions_total",
			Help:      "Applied order item status changes.",
		}, []string{"store", "from", "to"}),
		RejectedTransitionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_rejected_total",
			Help:      "Status changes refused by a workflow guard.",
		}, []string{"store", "kind"}),
	}
}

func (m *OrderMetrics) OrderCreated(store, deliveryType string, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.WithLabelValues(store, deliveryType).Inc()
	m.OrdersCreatedAmount.WithLabelValues(store).Add(total.InexactFloat64())
}

func (m *OrderMetrics) OrderTransition(store, from, to string) {
	if m == nil {
		return
	}
	m.OrderTransitionsTotal.WithLabelValues(store, from, to).Inc()
}

func (m *OrderMetrics) ItemTransition(store, from, to string) {
	if m == nil {
		return
	}
	m.ItemTransitionsTotal.WithLabelValues(store, from, to).Inc()
}

func (m *OrderMetrics) TransitionRejected(store, kind string) {
	if m == nil {
		return
	}
	m.RejectedTransitionTotal.WithLabelValues(store, kind).Inc()
}

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	factory := promauto.With(reg)
	return &ServerMetrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		LatencyMS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "route"}),
	}
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

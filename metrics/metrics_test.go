package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)

	m.OrderCreated("fruver", "PICKUP", decimal.NewFromInt(4000))
	m.OrderCreated("fruver", "PICKUP", decimal.NewFromInt(1000))
	m.OrderTransition("fruver", "PENDING", "READY")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersCreatedTotal.WithLabelValues("fruver", "PICKUP")))
	assert.Equal(t, 5000.0, testutil.ToFloat64(m.OrdersCreatedAmount.WithLabelValues("fruver")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderTransitionsTotal.WithLabelValues("fruver", "PENDING", "READY")))
}

func TestNilOrderMetricsIsNoop(t *testing.T) {
	var m *OrderMetrics
	assert.NotPanics(t, func() {
		m.OrderCreated("fruver", "PICKUP", decimal.NewFromInt(1))
		m.ItemTransition("fruver", "PENDING", "READY")
		m.TransitionRejected("fruver", "order")
	})
}

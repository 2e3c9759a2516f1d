package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics records checkouts.
type OrderMetrics struct {
	placed *prometheus.CounterVec
	totals prometheus.Histogram
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders placed at checkout by payment method.",
	}, []string{"payment_method"})
	totals := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total",
		Help:    "Order totals including tax, in currency units.",
		Buckets: prometheus.ExponentialBuckets(100, 2, 12),
	})
	reg.MustRegister(placed, totals)
	return &OrderMetrics{placed: placed, totals: totals}
}

// ObservePlaced records a placed order and its total.
func (m *OrderMetrics) ObservePlaced(paymentMethod string, total float64) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
	m.totals.Observe(total)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StateMetrics counts store traffic and decode failures.
type StateMetrics struct {
	operations *prometheus.CounterVec
	corrupt    *prometheus.CounterVec
}

// NewStateMetrics registers the state store metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStateMetrics(reg prometheus.Registerer) *StateMetrics {
	if reg == nil {
		return &StateMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "state_operations_total",
		Help: "State store operations by key, operation and result.",
	}, []string{"key", "op", "result"})
	corrupt := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "state_corrupt_total",
		Help: "Persisted state documents that failed to decode.",
	}, []string{"key"})
	reg.MustRegister(operations, corrupt)
	return &StateMetrics{operations: operations, corrupt: corrupt}
}

// ObserveOperation records one backend round trip.
func (m *StateMetrics) ObserveOperation(key, op string, err error) {
	if m == nil || m.operations == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(normalizeLabel(key), normalizeLabel(op), result).Inc()
}

// IncCorrupt records an undecodable document.
func (m *StateMetrics) IncCorrupt(key string) {
	if m == nil || m.corrupt == nil {
		return
	}
	m.corrupt.WithLabelValues(normalizeLabel(key)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

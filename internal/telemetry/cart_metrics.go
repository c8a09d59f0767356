package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CartMetrics holds Prometheus metrics for the cart engine.
type CartMetrics struct {
	Operations     *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	ItemsAdded     prometheus.Counter
	Recalculations prometheus.Counter
	RepricedLines  prometheus.Counter
}

// NewCartMetrics creates cart metrics and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func NewCartMetrics(reg prometheus.Registerer, namespace string) *CartMetrics {
	if namespace == "" {
		namespace = "tillcart"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	const subsystem = "cart"
	factory := promauto.With(reg)

	return &CartMetrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "operations_total",
				Help:      "Cart operations by operation and outcome",
			},
			[]string{"op", "outcome"}, // op: add, update, remove, clear, replace
		),
		Rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rejections_total",
				Help:      "Rejected cart operations by reason",
			},
			[]string{"op", "reason"}, // reason: error code (conflict, invalid)
		),
		ItemsAdded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "items_added_total",
				Help:      "Units added to carts (quantity-aware)",
			},
		),
		Recalculations: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recalculations_total",
				Help:      "Recalculation passes triggered by pricing context changes",
			},
		),
		RepricedLines: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "repriced_lines_total",
				Help:      "Line items whose price changed during a recalculation pass",
			},
		),
	}
}

// ObserveOperation counts one operation. Safe on a nil receiver.
func (m *CartMetrics) ObserveOperation(op, outcome string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
}

// ObserveRejection counts one rejected operation. Safe on a nil receiver.
func (m *CartMetrics) ObserveRejection(op, reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(op, reason).Inc()
}

// ObserveItemsAdded counts units added. Safe on a nil receiver.
func (m *CartMetrics) ObserveItemsAdded(quantity int) {
	if m == nil || quantity <= 0 {
		return
	}
	m.ItemsAdded.Add(float64(quantity))
}

// ObserveRecalculation counts one pass and the lines it repriced. Safe on a nil receiver.
func (m *CartMetrics) ObserveRecalculation(repriced int) {
	if m == nil {
		return
	}
	m.Recalculations.Inc()
	if repriced > 0 {
		m.RepricedLines.Add(float64(repriced))
	}
}

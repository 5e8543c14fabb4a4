package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "dft"

// Metrics counts fitting and persistence activity.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	itemsAdded    *prometheus.CounterVec
	itemsRejected *prometheus.CounterVec
	itemsRemoved  *prometheus.CounterVec
	recordsSaved  *prometheus.CounterVec
	recordsDelete *prometheus.CounterVec
}

// NewMetrics registers every collector against reg.
//
// Precondition: reg is non-nil and has not already registered these collectors.
// Postcondition: Returns a ready Metrics; registration conflicts panic as with promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	auto := promauto.With(reg)
	return &Metrics{
		itemsAdded: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "fitting",
			Name:      "items_added_total",
			Help:      "Items fitted to a dropsuit, by slot type.",
		}, []string{"slot"}),
		itemsRejected: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "fitting",
			Name:      "items_rejected_total",
			Help:      "Add requests that left the fitting unchanged, by slot type and reason.",
		}, []string{"slot", "reason"}),
		itemsRemoved: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "fitting",
			Name:      "items_removed_total",
			Help:      "Items removed from a fitting, by slot type.",
		}, []string{"slot"}),
		recordsSaved: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "records",
			Name:      "saved_total",
			Help:      "Records written to storage, by record kind.",
		}, []string{"kind"}),
		recordsDelete: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "records",
			Name:      "deleted_total",
			Help:      "Records deleted from storage, by record kind.",
		}, []string{"kind"}),
	}
}

// ItemAdded counts an accepted add.
func (m *Metrics) ItemAdded(slot string) {
	if m == nil {
		return
	}
	m.itemsAdded.WithLabelValues(slot).Inc()
}

// ItemRejected counts an add that was refused.
func (m *Metrics) ItemRejected(slot, reason string) {
	if m == nil {
		return
	}
	m.itemsRejected.WithLabelValues(slot, reason).Inc()
}

// ItemRemoved counts a removal.
func (m *Metrics) ItemRemoved(slot string) {
	if m == nil {
		return
	}
	m.itemsRemoved.WithLabelValues(slot).Inc()
}

// RecordSaved counts a stored record of the given kind.
func (m *Metrics) RecordSaved(kind string) {
	if m == nil {
		return
	}
	m.recordsSaved.WithLabelValues(kind).Inc()
}

// RecordDeleted counts a deleted record of the given kind.
func (m *Metrics) RecordDeleted(kind string) {
	if m == nil {
		return
	}
	m.recordsDelete.WithLabelValues(kind).Inc()
}

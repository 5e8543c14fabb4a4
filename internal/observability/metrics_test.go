package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ItemAdded("hi_slot")
	m.ItemAdded("hi_slot")
	m.ItemAdded("low_slot")
	m.ItemRejected("hi_slot", "slot_full")
	m.ItemRemoved("low_slot")
	m.RecordSaved("fitting")
	m.RecordDeleted("character")

	assert.Equal(t, 2.0, promtest.ToFloat64(m.itemsAdded.WithLabelValues("hi_slot")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.itemsAdded.WithLabelValues("low_slot")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.itemsRejected.WithLabelValues("hi_slot", "slot_full")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.itemsRemoved.WithLabelValues("low_slot")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.recordsSaved.WithLabelValues("fitting")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.recordsDelete.WithLabelValues("character")))
}

func TestMetrics_RegistersNamespacedNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ItemAdded("light_weapon")
	m.RecordSaved("character")

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "dft_fitting_items_added_total")
	assert.Contains(t, names, "dft_records_saved_total")
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ItemAdded("hi_slot")
		m.ItemRejected("hi_slot", "slot_full")
		m.ItemRemoved("hi_slot")
		m.RecordSaved("fitting")
		m.RecordDeleted("fitting")
	})
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

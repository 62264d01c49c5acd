package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_SchedulingCounters(t *testing.T) {
	m := NewWithRegistry("scheduling-test", prometheus.NewRegistry())

	m.ObserveValidationRejection("PROFESSIONAL_BUSY")
	m.ObserveValidationRejection("PROFESSIONAL_BUSY")
	m.ObserveValidationRejection("COMPANY_BLOCKED")
	m.ObserveTransition("Confirmed")
	m.ObserveSlotsComputed(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationRejections.WithLabelValues("scheduling-test", "PROFESSIONAL_BUSY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationRejections.WithLabelValues("scheduling-test", "COMPANY_BLOCKED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateTransitions.WithLabelValues("scheduling-test", "Confirmed")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.SlotsComputed.WithLabelValues("scheduling-test")))
	assert.Equal(t, "scheduling-test", m.ServiceName())
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveValidationRejection("OUT_OF_HOURS")
		m.ObserveTransition("Cancelled")
		m.ObserveSlotsComputed(3)
	})
}

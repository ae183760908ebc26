package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.IncBookingCreated()
	m.IncFollowupFailure("booking_create")
	m.ObserveBatch("invoice_generate", 1, 1)
	m.ObserveRequest("GET", "/api/v1/cars", 200)
	m.IncTransitionRejected("booking")

	empty := New(nil)
	empty.IncBookingCreated()
	empty.ObserveBatch("invoice_generate", 2, 0)
}

func TestCountersAccumulate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncBookingCreated()
	m.IncBookingCreated()
	m.IncFollowupFailure("")
	m.ObserveBatch("invoice_generate", 2, 1)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.bookingsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.followupFailures.WithLabelValues("unknown")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.batchItems.WithLabelValues("invoice_generate", "succeeded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.batchItems.WithLabelValues("invoice_generate", "failed")))
}

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records rental workflow counters. A nil *Metrics is a no-op.
type Metrics struct {
	bookingsCreated    prometheus.Counter
	followupFailures   *prometheus.CounterVec
	batchItems         *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	transitionRejected *prometheus.CounterVec
}

// New registers the counters on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	bookingsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings inserted in Pending state.",
	})
	followupFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "car_status_followup_failures_total",
		Help: "Car status follow-up writes that failed after the primary write succeeded.",
	}, []string{"op"})
	batchItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_items_total",
		Help: "Per-item outcomes of multi-record operations.",
	}, []string{"op", "result"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})
	transitionRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "status_transitions_rejected_total",
		Help: "Status updates refused by the strict transition table.",
	}, []string{"entity"})
	reg.MustRegister(bookingsCreated, followupFailures, batchItems, httpRequests, transitionRejected)
	return &Metrics{
		bookingsCreated:    bookingsCreated,
		followupFailures:   followupFailures,
		batchItems:         batchItems,
		httpRequests:       httpRequests,
		transitionRejected: transitionRejected,
	}
}

func (m *Metrics) IncBookingCreated() {
	if m == nil || m.bookingsCreated == nil {
		return
	}
	m.bookingsCreated.Inc()
}

func (m *Metrics) IncFollowupFailure(op string) {
	if m == nil || m.followupFailures == nil {
		return
	}
	m.followupFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveBatch adds the succeeded and failed counts of one batch.
func (m *Metrics) ObserveBatch(op string, succeeded, failed int) {
	if m == nil || m.batchItems == nil {
		return
	}
	op = normalizeLabel(op)
	m.batchItems.WithLabelValues(op, "succeeded").Add(float64(succeeded))
	m.batchItems.WithLabelValues(op, "failed").Add(float64(failed))
}

func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil || m.httpRequests == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Inc()
}

func (m *Metrics) IncTransitionRejected(entity string) {
	if m == nil || m.transitionRejected == nil {
		return
	}
	m.transitionRejected.WithLabelValues(normalizeLabel(entity)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

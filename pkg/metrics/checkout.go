package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records placement outcomes and latency for checkout.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	placed   prometheus.Counter
	failed   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of order placement in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_placed",
		Help: "Successfully placed orders.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_failed",
		Help: "Failed order placements.",
	}, []string{"reason"})
	reg.MustRegister(duration, placed, failed)
	return &CheckoutMetrics{
		duration: duration,
		placed:   placed,
		failed:   failed,
	}
}

// ObserveDuration records placement latency for the given outcome.
func (c *CheckoutMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncPlaced increments the placed order counter.
func (c *CheckoutMetrics) IncPlaced() {
	if c == nil || c.placed == nil {
		return
	}
	c.placed.Inc()
}

// IncFailed increments the failure counter for the named reason.
func (c *CheckoutMetrics) IncFailed(reason string) {
	if c == nil || c.failed == nil {
		return
	}
	c.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

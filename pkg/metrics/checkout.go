package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records the hosted-checkout lifecycle.
type CheckoutMetrics struct {
	sessionsCreated     prometheus.Counter
	sessionsFailed      *prometheus.CounterVec
	ordersRecorded      prometheus.Counter
	duplicatesPrevented prometheus.Counter
	gatewayDuration     *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Hosted checkout sessions created at the payment gateway.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_failed_total",
		Help: "Hosted checkout session attempts that failed, by reason.",
	}, []string{"reason"})
	recorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_recorded_total",
		Help: "Orders appended to a shopper history after a successful payment.",
	})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_duplicate_orders_prevented_total",
		Help: "Success redirects that did not record an order because it already existed.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_gateway_request_duration_seconds",
		Help:    "Duration of payment gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(created, failed, recorded, duplicates, duration)
	return &CheckoutMetrics{
		sessionsCreated:     created,
		sessionsFailed:      failed,
		ordersRecorded:      recorded,
		duplicatesPrevented: duplicates,
		gatewayDuration:     duration,
	}
}

func (c *CheckoutMetrics) IncSessionCreated() {
	if c == nil || c.sessionsCreated == nil {
		return
	}
	c.sessionsCreated.Inc()
}

// IncSessionFailed increments the failure counter for the given reason.
func (c *CheckoutMetrics) IncSessionFailed(reason string) {
	if c == nil || c.sessionsFailed == nil {
		return
	}
	c.sessionsFailed.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (c *CheckoutMetrics) IncOrderRecorded() {
	if c == nil || c.ordersRecorded == nil {
		return
	}
	c.ordersRecorded.Inc()
}

func (c *CheckoutMetrics) IncDuplicatePrevented() {
	if c == nil || c.duplicatesPrevented == nil {
		return
	}
	c.duplicatesPrevented.Inc()
}

// ObserveGateway records how long the named gateway operation took.
func (c *CheckoutMetrics) ObserveGateway(operation string, duration time.Duration) {
	if c == nil || c.gatewayDuration == nil {
		return
	}
	c.gatewayDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

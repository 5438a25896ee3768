package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the webhook counters.
const (
	OutcomeProcessed     = "processed"
	OutcomeDuplicate     = "duplicate"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeMalformed     = "malformed"
	OutcomeMisconfigured = "misconfigured"
	OutcomeFailed        = "failed"
)

// Metrics holds the collectors exposed on /metrics.
type Metrics struct {
	WebhookDeliveries  *prometheus.CounterVec
	BookingsReconciled *prometheus.CounterVec
	BookingsCancelled  prometheus.Counter
}

// New registers the service collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WebhookDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "webhook",
			Name:      "deliveries_total",
			Help:      "Webhook deliveries by topic and outcome.",
		}, []string{"topic", "outcome"}),
		BookingsReconciled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "bookings",
			Name:      "reconciled_total",
			Help:      "Booking candidates reconciled by result (created, exists, failed).",
		}, []string{"result"}),
		BookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "bookings",
			Name:      "cancelled_total",
			Help:      "Booking rows removed by order cancellations.",
		}),
	}
	reg.MustRegister(m.WebhookDeliveries, m.BookingsReconciled, m.BookingsCancelled)
	return m
}

func (m *Metrics) Delivery(topic, outcome string) {
	m.WebhookDeliveries.WithLabelValues(topic, outcome).Inc()
}

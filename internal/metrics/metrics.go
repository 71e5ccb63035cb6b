// Package metrics exposes the prometheus collectors for the contact backend.
// Notification counters are the observability hook for fire-and-forget
// dispatch: delivery failures never reach the HTTP caller, so operators
// alert on these instead.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// NotificationsAttempted counts outbound notification attempts by
	// channel ("email", "whatsapp") and event ("new_contact", "response").
	NotificationsAttempted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_notifications_attempted_total",
		Help: "Outbound notification attempts.",
	}, []string{"channel", "event"})

	// NotificationsFailed counts notification attempts that errored or
	// timed out. Attempted - Failed = delivered (as far as the provider
	// API is concerned).
	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_notifications_failed_total",
		Help: "Outbound notification attempts that failed.",
	}, []string{"channel", "event"})

	// PartialWrites counts compound respond writes that left an orphaned
	// response row behind. Non-zero values need manual reconciliation.
	PartialWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contact_partial_writes_total",
		Help: "Respond operations that persisted the response but failed to update the parent.",
	})

	// HTTPRequests counts served requests by method, route pattern and
	// status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_http_requests_total",
		Help: "HTTP requests served.",
	}, []string{"method", "pattern", "status"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

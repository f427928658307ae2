// Package metrics holds the Prometheus collectors shared by the HTTP layer,
// the event bus and the notifier.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_events_published_total",
			Help: "Domain events published on the event bus.",
		},
		[]string{"type"},
	)

	EventHandlerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_event_handler_failures_total",
			Help: "Event handlers that returned an error or panicked.",
		},
		[]string{"type"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_notifications_total",
			Help: "Webhook notifications by outcome (delivered, failed, dropped).",
		},
		[]string{"outcome"},
	)

	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})
)

// Init registers every collector in the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPInFlight,
			HTTPRequestsTotal,
			HTTPRequestDuration,
			EventsPublished,
			EventHandlerFailures,
			NotificationsTotal,
			RateLimited,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

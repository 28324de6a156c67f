// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarhub_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solarhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ApplicationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solarhub_applications_created_total",
			Help: "Total number of applications persisted",
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarhub_status_transitions_total",
			Help: "Status and phase transitions by catalog and target stage",
		},
		[]string{"catalog", "to"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarhub_notifications_total",
			Help: "New-application notifications by result",
		},
		[]string{"result"},
	)

	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solarhub_events_dropped_total",
			Help: "Events dropped because the bus buffer was full",
		},
	)

	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarhub_uploads_total",
			Help: "Uploaded files by category and result",
		},
		[]string{"category", "result"},
	)

	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "solarhub_stream_clients",
			Help: "Connected live-list WebSocket clients",
		},
	)

	RelayEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solarhub_relay_emails_total",
			Help: "Emails handled by the mail relay by result",
		},
		[]string{"result"},
	)
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Revocation subsystem metrics.
var (
	RevocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aegis_revocations_total",
		Help: "Revocation records written, by reason and scope.",
	}, []string{"reason", "scope"})

	RevocationChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aegis_revocation_checks_total",
		Help: "Enforcement middleware revocation checks, by result.",
	}, []string{"result"})

	StoreFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aegis_revocation_store_failures_total",
		Help: "Revocation store operations that returned an error, by operation.",
	}, []string{"op"})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aegis_webhook_events_total",
		Help: "Inbound identity-provider webhook events, by outcome.",
	}, []string{"outcome"})
)

// Revocation check results.
const (
	CheckResultAllowed = "allowed"
	CheckResultRevoked = "revoked"
	CheckResultError   = "error"
)

// Webhook outcomes.
const (
	WebhookOutcomeAccepted         = "accepted"
	WebhookOutcomeInvalidSignature = "invalid_signature"
	WebhookOutcomeInvalidSchema    = "invalid_schema"
	WebhookOutcomeFailed           = "failed"
)

// HTTP server metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aegis_http_request_duration_seconds",
		Help:    "HTTP request latency, by route and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)

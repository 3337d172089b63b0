package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Request outcome label values
const (
	outcomeSuccess      = "success"
	outcomeUnauthorized = "unauthorized"
	outcomeFailed       = "failed"
	outcomeTransport    = "transport_error"
)

// Renewal result label values
const (
	renewalSucceeded = "succeeded"
	renewalFailed    = "failed"
)

// Metrics holds the client's prometheus collectors
type Metrics struct {
	Requests *prometheus.CounterVec
	Renewals *prometheus.CounterVec
	Waiters  prometheus.Counter
}

// NewMetrics creates the client collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_requests_total",
				Help: "API requests by outcome",
			},
			[]string{"outcome"},
		),
		Renewals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_renewals_total",
				Help: "Credential renewal calls by result",
			},
			[]string{"result"},
		),
		Waiters: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_renewal_waiters_total",
				Help: "Callers that waited on an in-flight renewal",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Renewals, m.Waiters)
	}
	return m
}

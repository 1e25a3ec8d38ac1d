// Package metrics provides operational metrics collection.
//
// Metrics are registered on the default Prometheus registry and exposed
// via Handler for scraping by standard monitoring infrastructure.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CheckInsTotal counts accepted check-in events.
	CheckInsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyhall_check_ins_total",
		Help: "Number of accepted session check-ins.",
	})

	// CheckOutsTotal counts accepted check-out events.
	CheckOutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyhall_check_outs_total",
		Help: "Number of accepted session check-outs.",
	})

	// CorrectionsTotal counts correction workflow events by outcome.
	CorrectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhall_corrections_total",
		Help: "Number of correction workflow events by outcome.",
	}, []string{"outcome"})

	// AuthzDenialsTotal counts authorization denials by reason code.
	AuthzDenialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhall_authz_denials_total",
		Help: "Number of authorization denials by policy reason code.",
	}, []string{"reason"})

	// HTTPRequestsTotal counts handled HTTP requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhall_http_requests_total",
		Help: "Number of handled HTTP requests by route and status code.",
	}, []string{"route", "status"})

	// HTTPRequestDuration tracks HTTP request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studyhall_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// Correction outcome labels.
const (
	CorrectionRequested = "requested"
	CorrectionApproved  = "approved"
	CorrectionRejected  = "rejected"
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

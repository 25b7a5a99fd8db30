package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Reviews and comments
	ReviewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_total",
			Help: "Total review operations",
		},
		[]string{"action"}, // created|updated|deleted
	)
	CommentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comments_total",
			Help: "Total comment operations",
		},
		[]string{"action"},
	)

	// Auth flow
	CodesIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_codes_issued_total",
			Help: "Confirmation codes issued",
		},
	)
	TokensIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Access tokens issued",
		},
	)
)

// /metrics endpoint handler
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(ReviewsTotal)
	prometheus.MustRegister(CommentsTotal)
	prometheus.MustRegister(CodesIssued)
	prometheus.MustRegister(TokensIssued)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequests counts calls to the booking API by operation and response status.
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trainbooking",
			Name:      "backend_requests_total",
			Help:      "The total number of calls made to the booking API",
		},
		[]string{"op", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trainbooking",
			Name:      "backend_request_duration_seconds",
			Help:      "Time spent waiting for the booking API",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// Advisories counts non-error notices shown to the user, e.g. the seat limit.
	Advisories = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trainbooking",
			Name:      "advisories_total",
			Help:      "The total number of advisories returned to users",
		},
		[]string{"code"},
	)

	Purchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trainbooking",
			Name:      "purchases_total",
			Help:      "Purchase attempts by outcome",
		},
		[]string{"outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trainbooking",
			Name:      "cache_lookups_total",
			Help:      "Search cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)
)

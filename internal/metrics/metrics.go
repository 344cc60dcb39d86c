package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asd_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asd_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asd_predictions_total",
			Help: "Total number of predictions by age group and outcome",
		},
		[]string{"age_group", "outcome"},
	)

	PlacesRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asd_places_requests_total",
			Help: "Total number of places lookups by result",
		},
		[]string{"result"},
	)
)

// Places lookup results
const (
	PlacesResultCacheHit = "cache_hit"
	PlacesResultSuccess  = "success"
	PlacesResultUpstream = "upstream_error"
	PlacesResultFailure  = "failure"
)

// ObservePrediction counts one prediction
func ObservePrediction(ageGroup string, outcome bool) {
	PredictionsTotal.WithLabelValues(ageGroup, strconv.FormatBool(outcome)).Inc()
}

// ObservePlaces counts one places lookup
func ObservePlaces(result string) {
	PlacesRequestsTotal.WithLabelValues(result).Inc()
}

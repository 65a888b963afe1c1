package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outbound API Metrics
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAPIRequestsTotal,
			Help: HelpTextAPIRequestsTotal,
		},
		[]string{LabelEndpoint, LabelOutcome},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameAPIRequestDuration,
			Help:    HelpTextAPIRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelEndpoint},
	)

	APIRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameAPIRequestsInFlight,
			Help: HelpTextAPIRequestsInFlight,
		},
	)
)

// Synchronizer Metrics
var (
	StaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStaleResponses,
			Help: HelpTextStaleResponses,
		},
	)

	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActionsTotal,
			Help: HelpTextActionsTotal,
		},
		[]string{LabelAction, LabelOutcome},
	)

	LastSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameLastSync,
			Help: HelpTextLastSync,
		},
	)

	PlantPhase = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNamePlantPhase,
			Help: HelpTextPlantPhase,
		},
	)

	FeedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFeedEvents,
			Help: HelpTextFeedEvents,
		},
		[]string{LabelType},
	)
)

// Status Server Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)

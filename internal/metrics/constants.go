package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Outbound API metric names
const (
	MetricNameAPIRequestsTotal    = "farm_api_requests_total"
	MetricNameAPIRequestDuration  = "farm_api_request_duration_seconds"
	MetricNameAPIRequestsInFlight = "farm_api_requests_in_flight"
)

// Synchronizer metric names
const (
	MetricNameStaleResponses = "farm_stale_responses_total"
	MetricNameActionsTotal   = "farm_actions_total"
	MetricNameLastSync       = "farm_last_sync_timestamp_seconds"
	MetricNamePlantPhase     = "farm_plant_phase"
	MetricNameFeedEvents     = "farm_feed_events_total"
)

// Status server metric names
const (
	MetricNameHTTPRequestsTotal   = "farm_status_http_requests_total"
	MetricNameHTTPRequestDuration = "farm_status_http_request_duration_seconds"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextAPIRequestsTotal    = "Total number of requests sent to the game server"
	HelpTextAPIRequestDuration  = "Game server request latency in seconds"
	HelpTextAPIRequestsInFlight = "Current number of game server requests awaiting a response"
	HelpTextStaleResponses      = "State responses discarded because a newer one was already applied"
	HelpTextActionsTotal        = "Player actions by kind and outcome"
	HelpTextLastSync            = "Unix time of the last applied state snapshot"
	HelpTextPlantPhase          = "Current plant intent phase (0 idle, 1 plot chosen, 2 crop chosen, 3 submitting)"
	HelpTextFeedEvents          = "Change feed events received by type"
	HelpTextHTTPRequestsTotal   = "Total number of status server requests"
	HelpTextHTTPRequestDuration = "Status server request latency in seconds"
)

// ============================================================================
// Metric Label Names and Values
// ============================================================================

const (
	LabelEndpoint = "endpoint"
	LabelOutcome  = "outcome"
	LabelAction   = "action"
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
)

// Outcome label values
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
	OutcomeInvalid   = "invalid"
)

// ActionOther labels actions outside the known set so arbitrary kinds cannot grow the series count
const ActionOther = "other"

// Endpoint label values
const (
	EndpointState  = "state"
	EndpointAction = "action"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for request duration in
// seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

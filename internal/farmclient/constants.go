package farmclient

import "time"

// API paths
const (
	PathState  = "/api/game/state"
	PathAction = "/api/game/action"
	PathEvents = "/api/game/events"
)

// Headers
const (
	HeaderContentType = "Content-Type"
	HeaderAPIKey      = "X-API-Key"
	HeaderRequestID   = "X-Request-ID"
	ContentTypeJSON   = "application/json"
)

// Retry configuration
const (
	defaultRetryDelay = 500 * time.Millisecond

	// maxResponseBytes bounds how much of a response body is read
	maxResponseBytes = 4 << 20
)

// Log messages
const (
	logMsgRequestFailed  = "Game API request failed"
	logMsgServerError    = "Game API server error"
	logMsgRetrying       = "Retrying game API request"
	logMsgActionRejected = "Game API rejected action"
)

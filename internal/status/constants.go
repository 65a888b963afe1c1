package status

import (
	"time"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
)

// Route paths
const (
	PathHealthz = "/healthz"
	PathReadyz  = "/readyz"
	PathState   = "/state"
	PathMetrics = "/metrics"
)

// Health status values
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusDegraded    = "degraded"
)

// Messages
const (
	MsgNoState      = domain.ErrMsgNoState
	MsgSyncStale    = "last successful sync is too old"
	MsgFeedDown     = "change feed disconnected"
	MsgEncodeFailed = "Failed to encode JSON response"
	MsgWriteFailed  = "Failed to write response"
)

const (
	// staleSyncFactor times the refresh interval is how old the last sync may be before /readyz fails
	staleSyncFactor = 3

	// stateMessageLimit caps the messages returned by /state
	stateMessageLimit = 10

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Log messages
const (
	logMsgServerStarting = "Starting status server"
	logMsgServerFailed   = "Status server failed"
	logMsgShutdownFailed = "Status server shutdown failed"
	logMsgRequest        = "Status request"
)

package feed

import "time"

// Reconnect configuration
const (
	// initialBackoff is the first wait after a failed connection
	initialBackoff = 1 * time.Second

	// maxBackoff caps the reconnect wait
	maxBackoff = 30 * time.Second

	backoffMultiplier = 2.0

	// bufferSize is the largest single line the reader accepts
	bufferSize = 64 * 1024
)

// Event types
const (
	// EventTypeMessage is used when the server omits the event: line
	EventTypeMessage = "message"

	eventTypeKeepalive = "keepalive"
	eventTypeConnected = "connected"
)

// Log messages
const (
	logMsgConnected        = "Change feed connected"
	logMsgStopped          = "Change feed stopped"
	logMsgConnectionFailed = "Change feed connection failed"
	logMsgHandlerError     = "Change feed handler error"
	logMsgEventReceived    = "Change feed event received"
)

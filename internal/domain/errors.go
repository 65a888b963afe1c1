package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Transport errors
	ErrMsgTransport = "transport failure"

	// Server-side rejection
	ErrMsgRejected = "action rejected"

	// Local guards
	ErrMsgInvalidSelection = "invalid selection"
	ErrMsgPlantInFlight    = "a plant request is already in flight"
	ErrMsgInvalidParams    = "invalid action parameters"
	ErrMsgNoState          = "no game state loaded"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrTransport covers network failures, unexpected statuses and undecodable bodies.
	// The cached state is never touched when this is returned.
	ErrTransport = errors.New(ErrMsgTransport)

	// ErrRejected matches any *RejectionError via errors.Is
	ErrRejected = errors.New(ErrMsgRejected)

	ErrInvalidSelection = errors.New(ErrMsgInvalidSelection)
	ErrPlantInFlight    = errors.New(ErrMsgPlantInFlight)
	ErrInvalidParams    = errors.New(ErrMsgInvalidParams)
)

// RejectionError carries the server's own explanation of why an action was refused.
// Message is shown to the player verbatim.
type RejectionError struct {
	Action  ActionKind
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMsgRejected, e.Action, e.Message)
}

// Is lets errors.Is(err, ErrRejected) match
func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

// UserMessage returns the one-line text to show the player for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Message
	}
	return err.Error()
}

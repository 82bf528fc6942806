// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition indicates the requested lifecycle event is not
	// legal from the paper's current state. Nothing is applied.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrTerminalState indicates an attempt to move a paper out of a sink state.
	ErrTerminalState = errors.New("terminal state")

	// ErrDuplicateTicket indicates a create-ticket guard found the issue id
	// already set. The transition aborts and no new ticket is created.
	ErrDuplicateTicket = errors.New("ticket already exists")

	// ErrUnknownEditor indicates an editor handle that does not resolve.
	ErrUnknownEditor = errors.New("unknown editor")

	// ErrUnknownTrack indicates a track id that does not resolve.
	ErrUnknownTrack = errors.New("unknown track")

	// ErrGatewayFailure indicates the issue tracker or notification gateway
	// returned an error. Fatal for guarded transitions, logged for follow-ups.
	ErrGatewayFailure = errors.New("gateway failure")

	// ErrValidation indicates a user-facing submission validation failure.
	ErrValidation = errors.New("validation failed")
)

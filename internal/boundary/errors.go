package boundary

import "errors"

// Sentinel errors for the sampling and exploration pipeline. Callers match
// with errors.Is; producers wrap them with context via fmt.Errorf.
var (
	// ErrOutOfBounds marks a point outside the classifier's declared
	// domain. Non-fatal during exploration (tallied by the explorer),
	// fatal to surfacing after persistent recurrence.
	ErrOutOfBounds = errors.New("point out of bounds")

	// ErrBoundaryLost marks an adherer that exhausted its rotation budget
	// without bracketing the boundary.
	ErrBoundaryLost = errors.New("boundary lost")

	// ErrMaxSamplesExceeded marks an exhausted sample budget in global
	// search or surfacing.
	ErrMaxSamplesExceeded = errors.New("max samples exceeded")

	// ErrRemoteDisconnected marks a remote classifier whose transport
	// failed. The classifier is unusable afterwards.
	ErrRemoteDisconnected = errors.New("remote classifier disconnected")

	// ErrProtocol marks a malformed or unexpected remote exchange.
	ErrProtocol = errors.New("remote classifier protocol error")

	// ErrInvalidConfiguration marks parameters rejected at construction
	// time: margin >= jump distance, non-positive angles, non-unit
	// normals, dimension mismatches.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

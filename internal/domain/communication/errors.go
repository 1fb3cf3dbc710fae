// Package communication provides domain types for release communication.
package communication

import "errors"

// Domain errors for communication operations.
var (
	// ErrInvalidFormat indicates an invalid changelog format.
	ErrInvalidFormat = errors.New("invalid changelog format")

	// ErrReleaseNotFound indicates the requested version has no release in
	// the history.
	ErrReleaseNotFound = errors.New("release not found in history")
)

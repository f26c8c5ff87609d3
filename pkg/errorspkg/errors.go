// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrInternal indicates internal server error.
	ErrInternal = errors.New("internal")
	// ErrMovementFailed is the generic message shown when recording a movement fails.
	ErrMovementFailed = errors.New("failed to add movement, please try again")
)

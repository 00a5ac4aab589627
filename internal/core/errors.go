package core

import "errors"

// Recoverable store conditions. Both are handled locally by reseeding and
// must never escape to the process as a crash.
var (
	ErrNotFound        = errors.New("snapshot not found")
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// Surfaced auth and authz failures. These always reach the caller because
// they require a decision there.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRemoteUnavailable  = errors.New("remote auth unavailable")
	ErrAccessDenied       = errors.New("access denied")
)

// Validation failures raised by SaveEntry.
var (
	ErrEmptyTitle        = errors.New("empty title")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidCommission = errors.New("commission percent out of range")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidRole       = errors.New("invalid role")
	ErrUnknownUser       = errors.New("unknown user reference")
)

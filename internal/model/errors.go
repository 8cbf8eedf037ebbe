package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Round errors
	ErrInvalidRound = errors.New("invalid round")
)

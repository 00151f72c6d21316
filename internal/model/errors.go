package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrUnauthenticated = errors.New("credential could not be resolved to a participant")

	// Checkpoint errors
	ErrInvalidCheckpoint = errors.New("checkpoint id must be a positive integer")
	ErrUnknownCheckpoint = errors.New("checkpoint is not part of this hunt")

	// Claim errors
	ErrAlreadyCleared    = errors.New("checkpoint already cleared by this participant")
	ErrInvalidPassphrase = errors.New("passphrase does not match this checkpoint")

	// Storage errors
	ErrStoreUnavailable = errors.New("progress store unavailable")
)

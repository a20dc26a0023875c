package services

import "errors"

// Error kinds surfaced by the matching services. Callers test for them with
// errors.Is; the wrapped message carries the detail.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	ErrTimeout               = errors.New("repository timeout")
)

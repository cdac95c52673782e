package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrAuthRequired means the web API rejected the current session
	// credentials. It is always surfaced to the caller and never retried
	// here: refreshing credentials is the auth provider's job.
	ErrAuthRequired = errors.New("authentication required")
	ErrNotFound     = errors.New("resource not found")
	ErrRateLimited  = errors.New("rate limited")
)

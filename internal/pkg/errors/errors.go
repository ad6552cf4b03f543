package errors

import "errors"

// Sentinels wrapped by service errors; apierr carries the HTTP status.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnavailable marks a content backend that could not be reached.
	ErrUnavailable = errors.New("upstream unavailable")
)

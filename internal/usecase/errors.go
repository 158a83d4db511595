package usecase

import "errors"

// Sentinel errors wrapped by services with fmt.Errorf("%w: detail") so the
// transport layer can map them onto status codes. Store errors matching none
// of these propagate unchanged.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("contact not found")
	ErrAlreadyExists = errors.New("contact already exists")
	ErrUnavailable   = errors.New("contact store unavailable")
)

// errorKind returns a short metrics label for err.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "unknown"
	}
}

package smoke

import "errors"

// Sentinel kinds for smoke run failures.
var (
	ErrUnhealthy        = errors.New("service unhealthy")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrVerification     = errors.New("verification failed")
	ErrInvalidConfig    = errors.New("invalid smoke config")
)

package smoke

import "time"

// Client defaults.
const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	progressInterval        = time.Second
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Generated phone numbers.
const (
	minCountryCode = 1
	maxCountryCode = 999
	minSubscriber  = 1_000_000
	maxSubscriber  = 9_999_999
)

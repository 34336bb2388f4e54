package sink

import "errors"

// Sentinel errors for sink operations.
var (
	// ErrExists is returned when the destination already exists and overwrite is disabled.
	ErrExists = errors.New("trimarea: output already exists")

	// ErrVerification is returned when a committed file does not hold the expected byte count.
	ErrVerification = errors.New("trimarea: write verification failed")
)

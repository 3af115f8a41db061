package probe

import "errors"

var (
	// ErrProbeFailed is returned by Run when the initial request to the
	// seed fails or does not return 200. No worker requests are sent.
	ErrProbeFailed = errors.New("initial URL check failed")

	// ErrInvalidWorkers is returned by New when fewer than one worker is requested.
	ErrInvalidWorkers = errors.New("worker count must be at least 1")

	// ErrInvalidRequestCount is returned by New for a negative request count.
	ErrInvalidRequestCount = errors.New("request count must not be negative")

	// ErrInvalidSeedURL is returned by New when the seed is not an absolute URL.
	ErrInvalidSeedURL = errors.New("seed must be an absolute URL")

	// ErrNilSenderFactory is returned by New when no sender factory is given.
	ErrNilSenderFactory = errors.New("sender factory must not be nil")
)

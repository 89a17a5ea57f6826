package iofence

import "errors"

var (
	// ErrInvalidConfig is returned when configuration cannot be
	// loaded or parsed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrTimerCreation is returned by NewRateLimiter when the kernel
	// timer backing the limiter cannot be allocated.
	ErrTimerCreation = errors.New("failed to create limiter timer")

	// ErrSpuriousEvent is returned by EventHandler when the timer
	// descriptor reported readable but there was no expiration to
	// drain. The limiter state is unchanged.
	ErrSpuriousEvent = errors.New("spurious timer event")

	// ErrTimerDrain is returned by EventHandler when reading the
	// timer descriptor fails. The limiter stays blocked until a
	// later drain succeeds.
	ErrTimerDrain = errors.New("failed to drain limiter timer")
)

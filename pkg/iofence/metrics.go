package iofence

// Metrics counts the throttling decisions a RateLimiter has made.
// Counters are updated inline by Consume and EventHandler on the
// owning goroutine; like the limiter itself they are not safe for
// concurrent access.
type Metrics struct {
	// ThrottledBytes is the number of Consume calls on the bytes
	// axis that were denied.
	ThrottledBytes uint64

	// ThrottledOps is the number of Consume calls on the ops axis
	// that were denied.
	ThrottledOps uint64

	// TimerArms is the number of times the wake-up timer was armed.
	TimerArms uint64

	// TimerEvents is the number of timer expirations drained by
	// EventHandler.
	TimerEvents uint64
}

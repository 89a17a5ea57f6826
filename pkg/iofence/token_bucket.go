package iofence

import (
	"time"

	"github.com/yourusername/iofence/internal/clock"
)

// ConsumeResult is the outcome of a TokenBucket.Consume call.
type ConsumeResult int

const (
	// ConsumeSuccess means the requested tokens were deducted.
	ConsumeSuccess ConsumeResult = iota

	// ConsumeFailure means the bucket holds too little credit right
	// now. The request is within capacity plus initial one-time burst,
	// but it can succeed later only if it fits in what is still
	// obtainable: once the one-time burst is spent, a request larger
	// than capacity keeps failing no matter how much time passes.
	ConsumeFailure

	// ConsumeOverflow means the request exceeds the bucket's maximum
	// possible credit (capacity plus initial one-time burst). It can
	// never succeed, no matter how much time passes.
	ConsumeOverflow
)

// String returns a human-readable name for the result.
func (r ConsumeResult) String() string {
	switch r {
	case ConsumeSuccess:
		return "success"
	case ConsumeFailure:
		return "failure"
	case ConsumeOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// TokenBucket is a passive token bucket: it holds up to Capacity
// tokens of replenishable budget plus an optional one-time burst that
// is spent before the budget and never refilled. The budget refills
// continuously, reaching full capacity over the configured refill
// time.
//
// Refill accounting is integer-only. Capacity and refill time are
// pre-reduced by their greatest common divisor so that a full refill
// interval always yields exactly Capacity tokens, and elapsed time
// that is too short to mint a whole token is carried over to the next
// call instead of being lost.
//
// A bucket constructed with a zero size or a zero refill time is
// disabled: every Consume succeeds and no state is kept.
//
// TokenBucket is not safe for concurrent use.
type TokenBucket struct {
	size              uint64
	initialBurst      uint64
	oneTimeBurst      uint64
	refillTime        uint64 // nanoseconds to refill from empty to size
	budget            uint64
	lastUpdate        time.Time
	processedCapacity uint64
	processedRefill   uint64
	clock             clock.Clock
}

// NewTokenBucket creates a full bucket that refills from empty to size
// over refillTimeMS milliseconds, with oneTimeBurst extra tokens
// available up front.
//
// Example: NewTokenBucket(1_000_000, 0, 1000) shapes traffic to one
// megabyte per second with bursts of up to one megabyte.
//
// A size or refillTimeMS of zero creates a disabled bucket on which
// every Consume succeeds.
func NewTokenBucket(size, oneTimeBurst, refillTimeMS uint64) *TokenBucket {
	return NewTokenBucketWithClock(size, oneTimeBurst, refillTimeMS, clock.NewRealClock())
}

// NewTokenBucketWithClock is NewTokenBucket with an injected time
// source, used by tests to drive refill deterministically.
func NewTokenBucketWithClock(size, oneTimeBurst, refillTimeMS uint64, c clock.Clock) *TokenBucket {
	b := &TokenBucket{
		size:         size,
		initialBurst: oneTimeBurst,
		oneTimeBurst: oneTimeBurst,
		refillTime:   refillTimeMS * uint64(time.Millisecond),
		budget:       size,
		lastUpdate:   c.Now(),
		clock:        c,
	}
	if !b.disabled() {
		g := gcd(b.size, b.refillTime)
		b.processedCapacity = b.size / g
		b.processedRefill = b.refillTime / g
	}
	return b
}

func (b *TokenBucket) disabled() bool {
	return b.size == 0 || b.refillTime == 0
}

// gcd computes the greatest common divisor of two non-zero values.
func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// autoReplenish credits the budget with the tokens minted since
// lastUpdate, clamped at size. lastUpdate advances only by the time
// equivalent of the tokens actually credited, so sub-token elapsed
// time keeps accumulating across calls.
func (b *TokenBucket) autoReplenish() {
	now := b.clock.Now()
	elapsed := now.Sub(b.lastUpdate)
	if elapsed < 0 {
		// Clock went backwards; credit nothing.
		return
	}
	delta := uint64(elapsed.Nanoseconds())

	if delta >= b.refillTime {
		b.budget = b.size
		b.lastUpdate = now
		return
	}

	// delta < refillTime, so quanta < refillTime/processedRefill and
	// the token count below stays under size. No overflow.
	quanta := delta / b.processedRefill
	tokens := quanta * b.processedCapacity
	if tokens == 0 {
		return
	}

	b.lastUpdate = b.lastUpdate.Add(time.Duration(quanta * b.processedRefill))
	if tokens >= b.size-b.budget {
		b.budget = b.size
	} else {
		b.budget += tokens
	}
}

// Consume attempts to deduct tokens from the bucket. One-time burst
// credit is spent first; the remainder comes out of the budget after
// it has been replenished from elapsed time.
func (b *TokenBucket) Consume(tokens uint64) ConsumeResult {
	if b.disabled() {
		return ConsumeSuccess
	}

	if tokens > b.size && tokens-b.size > b.initialBurst {
		return ConsumeOverflow
	}

	if b.oneTimeBurst > 0 {
		if b.oneTimeBurst >= tokens {
			b.oneTimeBurst -= tokens
			return ConsumeSuccess
		}
		tokens -= b.oneTimeBurst
		b.oneTimeBurst = 0
	}

	b.autoReplenish()

	if tokens > b.budget {
		return ConsumeFailure
	}
	b.budget -= tokens
	return ConsumeSuccess
}

// ForceReplenish returns tokens to the budget, saturating at size.
// Tokens originally taken from the one-time burst are not restored to
// the burst; they land in the ordinary budget like any other credit.
func (b *TokenBucket) ForceReplenish(tokens uint64) {
	if b.disabled() {
		return
	}
	if tokens >= b.size-b.budget {
		b.budget = b.size
	} else {
		b.budget += tokens
	}
}

// Reset restores the bucket to its freshly constructed state: full
// budget, full one-time burst, refill anchored at the current instant.
func (b *TokenBucket) Reset() {
	b.budget = b.size
	b.oneTimeBurst = b.initialBurst
	b.lastUpdate = b.clock.Now()
}

// Capacity returns the bucket's maximum ordinary budget.
func (b *TokenBucket) Capacity() uint64 {
	return b.size
}

// OneTimeBurst returns the unspent one-time burst credit.
func (b *TokenBucket) OneTimeBurst() uint64 {
	return b.oneTimeBurst
}

// InitialOneTimeBurst returns the burst credit the bucket started
// with. Capacity()+InitialOneTimeBurst() is the largest request that
// can ever succeed.
func (b *TokenBucket) InitialOneTimeBurst() uint64 {
	return b.initialBurst
}

// RefillTimeMS returns the configured refill time in milliseconds.
func (b *TokenBucket) RefillTimeMS() uint64 {
	return b.refillTime / uint64(time.Millisecond)
}

// Budget returns the current ordinary budget as of the last
// replenish. It does not itself trigger a replenish.
func (b *TokenBucket) Budget() uint64 {
	return b.budget
}

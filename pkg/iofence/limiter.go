//go:build linux

package iofence

import (
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/iofence/internal/timerfd"
)

// RefillTimerIntervalMS is the one-shot wake-up delay, in
// milliseconds, armed whenever a Consume is denied. It is deliberately
// coarser than the buckets' refill resolution: the timer only decides
// when the event loop wakes, while available credit is recomputed from
// elapsed time on the next Consume.
const RefillTimerIntervalMS = 100

const refillTimerInterval = RefillTimerIntervalMS * time.Millisecond

// TokenType selects which of a limiter's two buckets an operation
// addresses.
type TokenType int

const (
	// TokenBytes addresses the bandwidth bucket.
	TokenBytes TokenType = iota
	// TokenOps addresses the operation-count bucket.
	TokenOps
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenBytes:
		return "bytes"
	case TokenOps:
		return "ops"
	default:
		return "unknown"
	}
}

// RateLimiter throttles I/O on two axes, bytes and operations, each
// backed by an optional TokenBucket. When a Consume is denied it arms
// a one-shot kernel timer whose file descriptor becomes readable once
// the wake-up delay elapses; the host event loop registers that
// descriptor with read interest and calls EventHandler when it fires,
// then retries the deferred work.
//
// The descriptor returned by AsRawFd is for readiness polling only.
// The poller must never read it; EventHandler owns the drain.
//
// RateLimiter lives inside a single event loop. It is not internally
// synchronized and must not be shared across goroutines.
type RateLimiter struct {
	bandwidth *TokenBucket
	ops       *TokenBucket

	timer       *timerfd.Timer
	timerActive bool

	metrics Metrics
}

// NewRateLimiter creates a limiter from its two bucket configurations.
// An axis whose size or refill time is zero is disabled: every Consume
// on it succeeds and ManualReplenish is a no-op. With both axes
// disabled the limiter is a pass-through and never blocks.
//
// The returned error is non-nil only when the kernel timer cannot be
// allocated, in which case it wraps ErrTimerCreation.
func NewRateLimiter(
	bytesTotalCapacity, bytesOneTimeBurst, bytesRefillTimeMS uint64,
	opsTotalCapacity, opsOneTimeBurst, opsRefillTimeMS uint64,
) (*RateLimiter, error) {
	var bandwidth, ops *TokenBucket
	if bytesTotalCapacity != 0 && bytesRefillTimeMS != 0 {
		bandwidth = NewTokenBucket(bytesTotalCapacity, bytesOneTimeBurst, bytesRefillTimeMS)
	}
	if opsTotalCapacity != 0 && opsRefillTimeMS != 0 {
		ops = NewTokenBucket(opsTotalCapacity, opsOneTimeBurst, opsRefillTimeMS)
	}

	timer, err := timerfd.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimerCreation, err)
	}

	return &RateLimiter{
		bandwidth: bandwidth,
		ops:       ops,
		timer:     timer,
	}, nil
}

func (l *RateLimiter) bucket(t TokenType) *TokenBucket {
	if t == TokenBytes {
		return l.bandwidth
	}
	return l.ops
}

// Consume attempts to deduct tokens from the bucket selected by t.
// It returns true when the tokens were deducted (or the axis is
// disabled) and false when the request was denied, either because
// credit is exhausted for now or because the request exceeds the
// bucket's maximum possible credit. On a denial the limiter arms its
// wake-up timer if it is not armed already.
func (l *RateLimiter) Consume(tokens uint64, t TokenType) bool {
	b := l.bucket(t)
	if b == nil {
		return true
	}

	if b.Consume(tokens) == ConsumeSuccess {
		return true
	}

	if t == TokenBytes {
		l.metrics.ThrottledBytes++
	} else {
		l.metrics.ThrottledOps++
	}

	// Arm failures are swallowed: Consume has no error channel, and
	// the next denied Consume retries the arm.
	if !l.timerActive {
		if err := l.timer.ArmOnce(refillTimerInterval); err == nil {
			l.timerActive = true
			l.metrics.TimerArms++
		}
	}
	return false
}

// ManualReplenish returns tokens to the bucket selected by t,
// saturating at its capacity. Used to undo a previously successful
// Consume whose I/O was abandoned or only partially performed.
// No-op on a disabled axis.
func (l *RateLimiter) ManualReplenish(tokens uint64, t TokenType) {
	if b := l.bucket(t); b != nil {
		b.ForceReplenish(tokens)
	}
}

// IsBlocked reports whether the limiter is waiting for its wake-up
// timer: true from the first denied Consume until EventHandler drains
// the expiration.
func (l *RateLimiter) IsBlocked() bool {
	return l.timerActive
}

// EventHandler drains the timer after its descriptor was reported
// readable and unblocks the limiter. It returns ErrSpuriousEvent when
// there was nothing to drain (limiter state unchanged) and an error
// wrapping ErrTimerDrain when the read itself fails (the limiter
// stays blocked; a later call may still succeed).
func (l *RateLimiter) EventHandler() error {
	n, err := l.timer.Expirations()
	if err != nil {
		if errors.Is(err, timerfd.ErrNoExpiration) {
			return ErrSpuriousEvent
		}
		return fmt.Errorf("%w: %v", ErrTimerDrain, err)
	}
	l.timerActive = false
	l.metrics.TimerEvents += n
	return nil
}

// AsRawFd returns the limiter's timer descriptor. It is readable
// exactly when the armed wake-up delay has elapsed and has not yet
// been drained. Register it with read interest; do not read it.
func (l *RateLimiter) AsRawFd() int {
	return l.timer.Fd()
}

// Bandwidth returns the bytes bucket, or nil when the axis is
// disabled.
func (l *RateLimiter) Bandwidth() *TokenBucket {
	return l.bandwidth
}

// Ops returns the operation-count bucket, or nil when the axis is
// disabled.
func (l *RateLimiter) Ops() *TokenBucket {
	return l.ops
}

// Metrics returns a snapshot of the limiter's throttle counters.
func (l *RateLimiter) Metrics() Metrics {
	return l.metrics
}

// Close releases the timer descriptor. The limiter must not be used
// afterwards.
func (l *RateLimiter) Close() error {
	return l.timer.Close()
}

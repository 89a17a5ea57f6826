//go:build linux

// Package timerfd wraps the Linux timerfd(2) facility: a timer whose
// expirations are delivered through a file descriptor, so an event
// loop can wait on it alongside sockets and pipes.
package timerfd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// ErrNoExpiration is returned by Expirations when the descriptor was
// read before the timer fired (the read would block).
var ErrNoExpiration = errors.New("timerfd: no expiration to read")

// Timer is a one-shot monotonic timer backed by a timerfd descriptor.
// The descriptor is nonblocking and close-on-exec. Timer is owned by a
// single goroutine; it is not safe for concurrent use.
type Timer struct {
	fd int
}

// New creates a disarmed timer on the monotonic clock.
func New() (*Timer, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("timerfd: create: %w", err)
	}
	return &Timer{fd: fd}, nil
}

// ArmOnce arms the timer to fire once after d. Re-arming an armed
// timer replaces the pending expiration.
func (t *Timer) ArmOnce(d time.Duration) error {
	spec := unix.ItimerSpec{
		Value: unix.NsecToTimespec(d.Nanoseconds()),
	}
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		return fmt.Errorf("timerfd: settime: %w", err)
	}
	return nil
}

// Disarm cancels any pending expiration.
func (t *Timer) Disarm() error {
	var spec unix.ItimerSpec
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		return fmt.Errorf("timerfd: settime: %w", err)
	}
	return nil
}

// Expirations reads and returns the number of times the timer has
// fired since the last read. Returns ErrNoExpiration if the timer has
// not fired (nonblocking read hit EAGAIN).
func (t *Timer) Expirations() (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(t.fd, buf[:])
	if err != nil {
		if err == unix.EAGAIN {
			return 0, ErrNoExpiration
		}
		return 0, fmt.Errorf("timerfd: read: %w", err)
	}
	if n != len(buf) {
		return 0, fmt.Errorf("timerfd: short read of %d bytes", n)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

// Fd returns the raw file descriptor for readiness polling.
// The descriptor is readable exactly when an armed expiration is
// pending; callers must not read it themselves.
func (t *Timer) Fd() int {
	return t.fd
}

// Close releases the descriptor. The timer must not be used afterwards.
func (t *Timer) Close() error {
	return unix.Close(t.fd)
}

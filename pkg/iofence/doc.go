// Package iofence provides token-bucket rate limiting for I/O inside
// single-threaded, event-loop-driven processes.
//
// A RateLimiter pairs two token buckets, one accounting bytes and one
// accounting operations, with a single kernel timer exposed as a file
// descriptor. When either bucket runs dry the limiter arms the timer;
// the host event loop sleeps on the descriptor alongside its other
// sources and resumes the throttled work once it fires.
//
// # Quick Start
//
// Shape traffic to 1 MiB/s and 1000 ops/s:
//
//	limiter, err := iofence.NewRateLimiter(
//	    1<<20, 0, 1000, // bytes: size, one-time burst, refill ms
//	    1000, 0, 1000, // ops: size, one-time burst, refill ms
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer limiter.Close()
//
//	if limiter.Consume(uint64(len(chunk)), iofence.TokenBytes) {
//	    // perform the I/O
//	} else {
//	    // limiter.AsRawFd() will become readable in ~100ms;
//	    // park the request until then
//	}
//
// # Event Loop Integration
//
// Register AsRawFd() in your poller with read interest. When it
// reports readable, call EventHandler to drain the expiration and
// unblock the limiter, then retry the deferred work:
//
//	fds := []unix.PollFd{{Fd: int32(limiter.AsRawFd()), Events: unix.POLLIN}}
//	unix.Poll(fds, -1)
//	if err := limiter.EventHandler(); err != nil {
//	    log.Printf("limiter: %v", err)
//	}
//	// retry: limiter.Consume(...)
//
// The descriptor contract is strict: the poller watches it but must
// never read it. Only EventHandler drains the timer.
//
// # Token Buckets
//
// Each bucket holds up to its capacity in replenishable budget and
// refills continuously: a bucket of size S with refill time T grants
// S tokens per T, with integer-exact accounting. Elapsed time too
// short to mint a whole token is carried to the next call, never
// dropped. An optional one-time burst is spent before the budget and
// never comes back, which lets a freshly created limiter absorb an
// initial spike.
//
// Configuring an axis with a zero size or zero refill time disables
// it; consumes on a disabled axis always succeed. With both axes
// disabled the limiter is a pass-through.
//
// # Configuration
//
// Limits can be loaded from YAML:
//
//	bandwidth:
//	  size: 1048576
//	  one_time_burst: 4096
//	  refill_time_ms: 1000
//	ops:
//	  size: 1000
//	  refill_time_ms: 1000
//
//	cfg, err := iofence.LoadConfigFromFile("limits.yaml")
//	limiter, err := iofence.NewRateLimiterFromConfig(cfg)
//
// # Concurrency
//
// The limiter is deliberately not synchronized. It belongs to one
// event loop, all its operations complete in bounded work, and none of
// them block. Sharing a limiter across goroutines is a bug.
//
// # Platform
//
// The wake-up mechanism is a Linux timerfd; RateLimiter is therefore
// Linux-only. TokenBucket is platform-neutral and can be used on its
// own anywhere.
package iofence

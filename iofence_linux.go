package iofence

import (
	"github.com/yourusername/iofence/pkg/iofence"
)

// Re-export the limiter surface (Linux-only, timerfd-backed)
type (
	RateLimiter = iofence.RateLimiter
	TokenType   = iofence.TokenType
	Metrics     = iofence.Metrics
)

const (
	TokenBytes = iofence.TokenBytes
	TokenOps   = iofence.TokenOps
)

// NewRateLimiter creates a new I/O rate limiter
var NewRateLimiter = iofence.NewRateLimiter

// NewRateLimiterFromConfig creates a limiter from a loaded configuration
var NewRateLimiterFromConfig = iofence.NewRateLimiterFromConfig

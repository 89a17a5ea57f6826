package iofence

import (
	"github.com/yourusername/iofence/pkg/iofence"
)

// Re-export main types for convenience
type (
	TokenBucket       = iofence.TokenBucket
	ConsumeResult     = iofence.ConsumeResult
	TokenBucketConfig = iofence.TokenBucketConfig
	RateLimiterConfig = iofence.RateLimiterConfig
)

const (
	ConsumeSuccess  = iofence.ConsumeSuccess
	ConsumeFailure  = iofence.ConsumeFailure
	ConsumeOverflow = iofence.ConsumeOverflow
)

// NewTokenBucket creates a new token bucket
var NewTokenBucket = iofence.NewTokenBucket

// LoadConfigFromFile loads limiter configuration from a YAML file
var LoadConfigFromFile = iofence.LoadConfigFromFile

package iofence

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TokenBucketConfig describes one bucket axis. A zero Size or a zero
// RefillTimeMS disables the axis; OneTimeBurst on a disabled axis is
// ignored.
type TokenBucketConfig struct {
	// Size is the maximum ordinary budget in tokens.
	Size uint64 `yaml:"size"`

	// OneTimeBurst is extra credit spent before the budget and never
	// refilled.
	OneTimeBurst uint64 `yaml:"one_time_burst,omitempty"`

	// RefillTimeMS is the time to refill the budget from empty to
	// Size, in milliseconds.
	RefillTimeMS uint64 `yaml:"refill_time_ms"`
}

// Enabled reports whether this configuration produces a live bucket.
func (c TokenBucketConfig) Enabled() bool {
	return c.Size != 0 && c.RefillTimeMS != 0
}

// RateLimiterConfig holds both axes of a limiter.
//
// Example YAML:
//
//	bandwidth:
//	  size: 1048576
//	  one_time_burst: 4096
//	  refill_time_ms: 1000
//	ops:
//	  size: 1000
//	  refill_time_ms: 1000
type RateLimiterConfig struct {
	// Bandwidth shapes bytes per refill interval.
	Bandwidth TokenBucketConfig `yaml:"bandwidth,omitempty"`

	// Ops shapes operations per refill interval.
	Ops TokenBucketConfig `yaml:"ops,omitempty"`
}

// LoadConfigFromFile loads a RateLimiterConfig from a YAML file.
func LoadConfigFromFile(path string) (*RateLimiterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
	}

	var config RateLimiterConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

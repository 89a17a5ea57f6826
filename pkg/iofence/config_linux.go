package iofence

// NewRateLimiterFromConfig creates a limiter from a loaded
// configuration. Disabled axes carry over exactly as with
// NewRateLimiter.
func NewRateLimiterFromConfig(cfg *RateLimiterConfig) (*RateLimiter, error) {
	return NewRateLimiter(
		cfg.Bandwidth.Size, cfg.Bandwidth.OneTimeBurst, cfg.Bandwidth.RefillTimeMS,
		cfg.Ops.Size, cfg.Ops.OneTimeBurst, cfg.Ops.RefillTimeMS,
	)
}

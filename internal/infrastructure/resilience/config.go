package resilience

import "time"

type RetryConfig struct {
	Attempts   int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

type BreakerConfig struct {
	Enabled       bool
	MinSamples    uint32
	FailureRatio  float64
	OpenFor       time.Duration
	HalfOpenCalls uint32
}

type Config struct {
	Retry   RetryConfig
	Breaker BreakerConfig
}

func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			Attempts:   3,
			BaseDelay:  200 * time.Millisecond,
			MaxDelay:   2 * time.Second,
			Multiplier: 2.0,
		},
		Breaker: BreakerConfig{
			Enabled:       true,
			MinSamples:    8,
			FailureRatio:  0.5,
			OpenFor:       30 * time.Second,
			HalfOpenCalls: 2,
		},
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.Retry.Attempts <= 0 {
		out.Retry.Attempts = def.Retry.Attempts
	}
	if out.Retry.BaseDelay <= 0 {
		out.Retry.BaseDelay = def.Retry.BaseDelay
	}
	if out.Retry.MaxDelay < out.Retry.BaseDelay {
		out.Retry.MaxDelay = out.Retry.BaseDelay
	}
	if out.Retry.Multiplier < 1.0 {
		out.Retry.Multiplier = def.Retry.Multiplier
	}

	if out.Breaker.MinSamples == 0 {
		out.Breaker.MinSamples = def.Breaker.MinSamples
	}
	if out.Breaker.FailureRatio <= 0 || out.Breaker.FailureRatio > 1 {
		out.Breaker.FailureRatio = def.Breaker.FailureRatio
	}
	if out.Breaker.OpenFor <= 0 {
		out.Breaker.OpenFor = def.Breaker.OpenFor
	}
	if out.Breaker.HalfOpenCalls == 0 {
		out.Breaker.HalfOpenCalls = def.Breaker.HalfOpenCalls
	}

	return out
}

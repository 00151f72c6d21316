package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ClaimRetries bounds optimistic-lock attempts for ApplyClaim before
	// giving up with a store error
	ClaimRetries int

	// RetryJitter is the maximum random backoff between claim attempts
	RetryJitter time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		ClaimRetries: 8,
		RetryJitter:  5 * time.Millisecond,
	}
}

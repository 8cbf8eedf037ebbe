package redis

import "time"

// DefaultKeyPrefix namespaces console keys when no prefix is configured
const DefaultKeyPrefix = "scorekeeper"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	PoolSize     int
	MinIdleConns int

	// KeyPrefix lets several consoles share one Redis database
	KeyPrefix string

	// SessionTTL caps how long a session is kept. A session whose own
	// expiry comes sooner uses that instead.
	SessionTTL time.Duration
}

// DefaultConfig returns the settings used for a local Redis
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    DefaultKeyPrefix,
		SessionTTL:   24 * time.Hour,
	}
}

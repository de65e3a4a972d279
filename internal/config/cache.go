package config

import "time"

// CacheConfig controls the Redis response cache wrapped around the public
// content list endpoints.  Only successful GET responses are cached; the
// key is derived from the matched route plus the raw query string.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads cache settings from the environment.  Content
// changes rarely relative to reads, so the default TTL leans short to keep
// admin edits visible quickly.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenv("CACHE_ENABLED", "true") == "true",
		TTL:          durDefault("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: intDefault("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

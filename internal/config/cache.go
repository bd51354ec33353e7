package config

import (
	"os"
	"strconv"
	"time"
)

// CacheConfig defines settings for the category list cache.  When Enabled is
// false or no Redis client is available, every read goes straight to the
// database.  Key is the fixed cache key under which the serialized category
// list is stored.  TTL bounds staleness; InvalidateOnWrite additionally
// drops the cached list whenever a category is created, updated or deleted.
// The historical behavior of this application is TTL-only with no
// invalidation on write, so InvalidateOnWrite defaults to false.
type CacheConfig struct {
	Enabled           bool
	Key               string
	TTL               time.Duration
	InvalidateOnWrite bool
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:           getenv("CACHE_ENABLED", "true") == "true",
		Key:               getenv("CACHE_CATEGORY_KEY", "category_list"),
		TTL:               parseDur(getenv("CACHE_TTL", "60s")),
		InvalidateOnWrite: getenv("CACHE_INVALIDATE_ON_WRITE", "false") == "true",
	}
}

// Env helpers shared by the config loaders in this package.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}

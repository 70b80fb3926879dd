package instance

import (
	"fmt"
	"os"
)

// RedisURLEnv overrides the configured store location.
const RedisURLEnv = "CATALOG_REDIS_URL"

// GetRedisHost returns the appropriate Redis hostname for the current environment.
// In Docker-in-Docker scenarios, it returns "host.docker.internal" to access
// the host's published ports. Otherwise, it returns "localhost".
func GetRedisHost() string {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "host.docker.internal"
	}
	return "localhost"
}

// GetRedisURL constructs the full Redis URL for a given port.
func GetRedisURL(port int) string {
	return fmt.Sprintf("redis://%s:%d", GetRedisHost(), port)
}

// ResolveRedisURL picks the store URL by precedence: flag, then the
// CATALOG_REDIS_URL environment variable, then the config file.
// An empty result means the instance's managed container should be discovered.
func ResolveRedisURL(flagURL, configURL string) string {
	if flagURL != "" {
		return flagURL
	}
	if env := os.Getenv(RedisURLEnv); env != "" {
		return env
	}
	return configURL
}

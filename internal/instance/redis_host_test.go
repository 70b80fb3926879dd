package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRedisURL(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(RedisURLEnv, "redis://env:6379")
		assert.Equal(t, "redis://flag:6379", ResolveRedisURL("redis://flag:6379", "redis://cfg:6379"))
	})

	t.Run("env beats config", func(t *testing.T) {
		t.Setenv(RedisURLEnv, "redis://env:6379")
		assert.Equal(t, "redis://env:6379", ResolveRedisURL("", "redis://cfg:6379"))
	})

	t.Run("config fallback", func(t *testing.T) {
		t.Setenv(RedisURLEnv, "")
		assert.Equal(t, "redis://cfg:6379", ResolveRedisURL("", "redis://cfg:6379"))
	})

	t.Run("empty means discover", func(t *testing.T) {
		t.Setenv(RedisURLEnv, "")
		assert.Empty(t, ResolveRedisURL("", ""))
	})
}

func TestGetRedisURL(t *testing.T) {
	url := GetRedisURL(6390)
	assert.Contains(t, []string{"redis://localhost:6390", "redis://host.docker.internal:6390"}, url)
}

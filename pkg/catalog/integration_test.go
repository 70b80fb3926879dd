//go:build integration

package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container for testing.
func setupRedis(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start Redis container")

	t.Cleanup(func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Redis container: %v", err)
		}
	})

	host, err := redisC.Host(ctx)
	require.NoError(t, err)

	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s", host, port.Port())
}

func TestClient_AgainstRealRedis(t *testing.T) {
	redisURL := setupRedis(t)

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	client, err := NewClient(opts, "integration")
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := client.SubscribeNotifications(ctx)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, client.CreateProduct(ctx, testProduct("real-1")))

	exists, err := client.ProductExists(ctx, "real-1")
	require.NoError(t, err)
	assert.True(t, exists)

	err = client.CreateProduct(ctx, testProduct("real-1"))
	assert.ErrorIs(t, err, ErrProductExists)

	require.NoError(t, client.PublishNotification(ctx, &NotificationEvent{ID: 1, Message: "hello", Severity: SeverityInfo}))
	select {
	case ev := <-sub.Events():
		assert.Equal(t, "hello", ev.Message)
	case <-ctx.Done():
		t.Fatal("timed out waiting for notification")
	}
}

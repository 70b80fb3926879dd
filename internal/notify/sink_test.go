package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/catalog/pkg/catalog"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ calls int }

// stalledPublisher blocks until released, like a Redis server that stopped answering.
type stalledPublisher struct{ release chan struct{} }

func (p *stalledPublisher) PublishNotification(ctx context.Context, ev *catalog.NotificationEvent) error {
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *failingPublisher) PublishNotification(ctx context.Context, ev *catalog.NotificationEvent) error {
	p.calls++
	return errors.New("connection refused")
}

func TestBroadcastSink_PublishesToStore(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := catalog.NewClient(&redis.Options{Addr: mr.Addr()}, "sink-test")
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := client.SubscribeNotifications(ctx)
	require.NoError(t, err)
	defer sub.Close()

	q, _ := newTestQueue(t, WithSink(NewBroadcastSink(client, "create", nil)))
	id := q.Error("Failed to create product: timeout")

	select {
	case ev := <-sub.Events():
		assert.Equal(t, id, ev.ID)
		assert.Equal(t, catalog.SeverityError, ev.Severity)
		assert.Equal(t, "create", ev.Source)
		assert.Equal(t, DefaultTTL.Milliseconds(), ev.TTLMs)
	case <-ctx.Done():
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestBroadcastSink_FailureDoesNotAffectQueue(t *testing.T) {
	pub := &failingPublisher{}
	q, _ := newTestQueue(t, WithSink(NewBroadcastSink(pub, "edit", nil)))

	q.Info("local only", 0)
	q.Close()

	assert.Equal(t, 1, pub.calls)
	assert.Len(t, q.Live(), 1)
}

func TestBroadcastSink_StalledStoreDoesNotDelayPublish(t *testing.T) {
	pub := &stalledPublisher{release: make(chan struct{})}
	q, _ := newTestQueue(t, WithSink(NewBroadcastSink(pub, "create", nil)))
	t.Cleanup(func() { close(pub.release) })

	start := time.Now()
	q.Error("Failed to create product: timeout")

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Len(t, q.Live(), 1)
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Client provides instance-scoped Redis operations for catalog products.
// All keys and channels are namespaced with the instance name.
// The client is safe for concurrent use.
type Client struct {
	rdb          *redis.Client
	instanceName string
}

// NewClient creates a catalog client for the specified instance.
// Returns an error if instanceName is empty.
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// InstanceName returns the instance this client is scoped to.
func (c *Client) InstanceName() string {
	return c.instanceName
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// CreateProduct stores a new product.
// Returns ErrProductExists if the ID is already registered. Membership in the
// product index is claimed with SADD before the hash is written, so two
// concurrent creates for the same ID cannot both succeed.
func (c *Client) CreateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	indexKey := ProductIndexKey(c.instanceName)
	added, err := c.rdb.SAdd(ctx, indexKey, p.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to register product id: %w", err)
	}
	if added == 0 {
		return fmt.Errorf("%w: %s", ErrProductExists, p.ID)
	}

	key := ProductKey(c.instanceName, p.ID)
	if err := c.rdb.HSet(ctx, key, ProductToHash(p)).Err(); err != nil {
		// Release the id so a retry is possible
		_ = c.rdb.SRem(ctx, indexKey, p.ID).Err()
		return fmt.Errorf("failed to write product to Redis: %w", err)
	}

	return nil
}

// UpdateProduct applies a patch to an existing product.
// Returns ErrProductNotFound if the product does not exist.
// An empty patch is a successful no-op.
func (c *Client) UpdateProduct(ctx context.Context, id string, patch *ProductPatch) error {
	exists, err := c.ProductExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	if patch.IsEmpty() {
		return nil
	}

	key := ProductKey(c.instanceName, id)
	if err := c.rdb.HSet(ctx, key, PatchToHash(patch)).Err(); err != nil {
		return fmt.Errorf("failed to update product in Redis: %w", err)
	}

	return nil
}

// ProductExists reports whether a product ID is registered.
func (c *Client) ProductExists(ctx context.Context, id string) (bool, error) {
	exists, err := c.rdb.SIsMember(ctx, ProductIndexKey(c.instanceName), id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// GetProduct retrieves a product by ID.
// Returns ErrProductNotFound if it does not exist; use IsNotFound to check.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	hashData, err := c.rdb.HGetAll(ctx, ProductKey(c.instanceName, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read product from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hashData) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	product, err := HashToProduct(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize product: %w", err)
	}

	return product, nil
}

// ListProducts returns every product in the instance ordered by ID.
func (c *Client) ListProducts(ctx context.Context) ([]*Product, error) {
	ids, err := c.rdb.SMembers(ctx, ProductIndexKey(c.instanceName)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list product ids: %w", err)
	}
	sort.Strings(ids)

	pipe := c.rdb.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, ProductKey(c.instanceName, id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to read products from Redis: %w", err)
		}
	}

	products := make([]*Product, 0, len(ids))
	for _, cmd := range cmds {
		hashData := cmd.Val()
		if len(hashData) == 0 {
			// Index entry without a hash: a create that failed mid-way
			continue
		}
		product, err := HashToProduct(hashData)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize product: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

// PublishNotification broadcasts a notification event on the instance channel.
func (c *Client) PublishNotification(ctx context.Context, ev *NotificationEvent) error {
	if err := ev.Severity.Validate(); err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	channel := NotificationEventsChannel(c.instanceName)
	if err := c.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	return nil
}

// NotificationSubscription represents an active Pub/Sub subscription to notification events.
// Caller must call Close() when done to clean up resources.
type NotificationSubscription struct {
	events <-chan *NotificationEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of notification events.
// The channel is closed when the subscription is closed or the context is cancelled.
func (s *NotificationSubscription) Events() <-chan *NotificationEvent {
	return s.events
}

// Errors returns the channel of non-fatal subscription errors (malformed payloads).
func (s *NotificationSubscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription. Safe to call multiple times.
func (s *NotificationSubscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeNotifications subscribes to notification events for this instance.
// The subscription is confirmed with Redis before returning, so events published
// after this call are not missed.
//
// Events are delivered on a buffered channel (size 10). Redis Pub/Sub is
// at-most-once: a subscriber that falls behind may lose events.
func (c *Client) SubscribeNotifications(ctx context.Context) (*NotificationSubscription, error) {
	channel := NotificationEventsChannel(c.instanceName)
	pubsub := c.rdb.Subscribe(ctx, channel)

	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to notification events: %w", err)
	}

	eventsChan := make(chan *NotificationEvent, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev NotificationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal notification event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &NotificationSubscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound reports whether err means the product does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) || errors.Is(err, redis.Nil)
}

// Package notify implements the notification queue: transient, auto-dismissing
// messages published by any component and observed by passive renderers.
package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dyluth/catalog/internal/clock"
	"github.com/dyluth/catalog/internal/logging"
	"github.com/dyluth/catalog/internal/metrics"
	"github.com/dyluth/catalog/pkg/catalog"
)

// DefaultTTL is applied by the severity helpers when no ttl is supplied.
const DefaultTTL = 3000 * time.Millisecond

// lastID is shared by every queue in the process so ids are never reused.
var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

// Notification is an immutable message shown to the user.
type Notification struct {
	ID          uint64
	Message     string
	Severity    catalog.Severity
	TTL         time.Duration // 0 means never auto-dismiss
	PublishedAt time.Time
}

// EventKind tells observers what happened to a notification.
type EventKind int

const (
	EventPublished EventKind = iota
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventPublished:
		return "published"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is delivered to observers on every change of the live sequence.
type Event struct {
	Kind         EventKind
	Notification Notification
}

// Sink receives every published notification, e.g. to broadcast it to other processes.
// Forward runs on the queue's forwarding goroutine, never on the publisher's.
type Sink interface {
	Forward(n Notification)
}

// Queue holds the ordered sequence of live notifications.
// Publish and Remove are safe for concurrent use.
type Queue struct {
	mu         sync.Mutex
	clock      clock.Clock
	defaultTTL time.Duration
	logger     logging.Logger
	sinks      []Sink

	live   []Notification
	timers map[uint64]clock.Timer
	subs   map[chan Event]struct{}
	closed bool

	forward   chan Notification
	forwarded chan struct{}
}

// forwardBuffer bounds the notifications waiting for the sinks.
const forwardBuffer = 64

// Option configures a Queue.
type Option func(*Queue)

// WithClock sets the clock used to schedule evictions.
func WithClock(c clock.Clock) Option {
	return func(q *Queue) { q.clock = c }
}

// WithDefaultTTL overrides DefaultTTL for the severity helpers.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(q *Queue) { q.defaultTTL = ttl }
}

// WithLogger sets the queue's logger.
func WithLogger(l logging.Logger) Option {
	return func(q *Queue) { q.logger = l }
}

// WithSink adds a sink that receives every published notification.
func WithSink(s Sink) Option {
	return func(q *Queue) { q.sinks = append(q.sinks, s) }
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		clock:      clock.Real(),
		defaultTTL: DefaultTTL,
		logger:     logging.Nop(),
		timers:     make(map[uint64]clock.Timer),
		subs:       make(map[chan Event]struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	if len(q.sinks) > 0 {
		q.forward = make(chan Notification, forwardBuffer)
		q.forwarded = make(chan struct{})
		go q.runSinks()
	}
	return q
}

// runSinks hands notifications to the sinks in publish order, off the publisher's path.
func (q *Queue) runSinks() {
	defer close(q.forwarded)
	for n := range q.forward {
		for _, s := range q.sinks {
			s.Forward(n)
		}
	}
}

// Publish appends a notification to the live sequence and returns its id.
// A positive ttl schedules its automatic removal after exactly that delay;
// zero or negative keeps it until Remove is called.
func (q *Queue) Publish(message string, severity catalog.Severity, ttl time.Duration) uint64 {
	if ttl < 0 {
		ttl = 0
	}

	n := Notification{
		ID:          nextID(),
		Message:     message,
		Severity:    severity,
		TTL:         ttl,
		PublishedAt: q.clock.Now(),
	}

	q.mu.Lock()
	q.live = append(q.live, n)
	if ttl > 0 && !q.closed {
		id := n.ID
		q.timers[id] = q.clock.AfterFunc(ttl, func() { q.expire(id) })
	}
	q.broadcast(Event{Kind: EventPublished, Notification: n})
	dropped := false
	if q.forward != nil && !q.closed {
		select {
		case q.forward <- n:
		default:
			dropped = true
		}
	}
	q.mu.Unlock()

	metrics.NotificationsPublished.WithLabelValues(string(severity)).Inc()
	metrics.NotificationsLive.Inc()
	q.logger.Debug("notification published", "id", n.ID, "severity", string(severity), "ttl_ms", ttl.Milliseconds())

	if dropped {
		metrics.NotificationsBroadcastErrors.Inc()
		q.logger.Warn("sinks are behind, notification not forwarded", "id", n.ID)
	}

	return n.ID
}

// Success publishes a success notification. Without a ttl the queue's default applies.
func (q *Queue) Success(message string, ttl ...time.Duration) uint64 {
	return q.Publish(message, catalog.SeveritySuccess, q.ttlOrDefault(ttl))
}

// Error publishes an error notification. Without a ttl the queue's default applies.
func (q *Queue) Error(message string, ttl ...time.Duration) uint64 {
	return q.Publish(message, catalog.SeverityError, q.ttlOrDefault(ttl))
}

// Warning publishes a warning notification. Without a ttl the queue's default applies.
func (q *Queue) Warning(message string, ttl ...time.Duration) uint64 {
	return q.Publish(message, catalog.SeverityWarning, q.ttlOrDefault(ttl))
}

// Info publishes an info notification. Without a ttl the queue's default applies.
func (q *Queue) Info(message string, ttl ...time.Duration) uint64 {
	return q.Publish(message, catalog.SeverityInfo, q.ttlOrDefault(ttl))
}

func (q *Queue) ttlOrDefault(ttl []time.Duration) time.Duration {
	if len(ttl) == 0 {
		return q.defaultTTL
	}
	return ttl[0]
}

// Remove deletes the notification with the given id.
// Removing an id that is not live is a no-op.
func (q *Queue) Remove(id uint64) {
	q.remove(id, "removed")
}

func (q *Queue) expire(id uint64) {
	q.remove(id, "expired")
}

func (q *Queue) remove(id uint64, reason string) {
	q.mu.Lock()
	idx := -1
	for i, n := range q.live {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return
	}

	n := q.live[idx]
	q.live = append(q.live[:idx], q.live[idx+1:]...)
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	q.broadcast(Event{Kind: EventRemoved, Notification: n})
	q.mu.Unlock()

	metrics.NotificationsLive.Dec()
	q.logger.Debug("notification "+reason, "id", id)
}

// Live returns a snapshot of the live notifications in display order.
func (q *Queue) Live() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, len(q.live))
	copy(out, q.live)
	return out
}

// Subscribe registers an observer. Events are delivered on a buffered channel;
// an observer that falls behind misses events rather than blocking publishers.
// The returned function unsubscribes and closes the channel.
func (q *Queue) Subscribe(buf int) (<-chan Event, func()) {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan Event, buf)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	q.subs[ch] = struct{}{}
	q.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			if _, ok := q.subs[ch]; ok {
				delete(q.subs, ch)
				close(ch)
			}
		})
	}
	return ch, unsub
}

// broadcast fans an event out to every observer. Caller holds q.mu.
func (q *Queue) broadcast(ev Event) {
	for ch := range q.subs {
		select {
		case ch <- ev:
		default:
			// Drop if observer is slow to avoid blocking publishers
		}
	}
}

// Close cancels pending evictions, closes every observer channel and waits
// until the sinks have received every notification already published.
// Live notifications stay readable through Live.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true

	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	for ch := range q.subs {
		close(ch)
		delete(q.subs, ch)
	}
	if q.forward != nil {
		close(q.forward)
	}
	q.mu.Unlock()

	if q.forwarded != nil {
		<-q.forwarded
	}
}

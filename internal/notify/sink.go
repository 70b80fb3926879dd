package notify

import (
	"context"
	"time"

	"github.com/dyluth/catalog/internal/logging"
	"github.com/dyluth/catalog/internal/metrics"
	"github.com/dyluth/catalog/pkg/catalog"
)

// Publisher is the broadcast capability of the record store.
type Publisher interface {
	PublishNotification(ctx context.Context, ev *catalog.NotificationEvent) error
}

// BroadcastSink forwards notifications to a Publisher so other processes can render them.
// Broadcast failures are logged and counted; they never affect the local queue.
type BroadcastSink struct {
	publisher Publisher
	source    string
	timeout   time.Duration
	logger    logging.Logger
}

// NewBroadcastSink creates a sink that tags events with source.
func NewBroadcastSink(p Publisher, source string, logger logging.Logger) *BroadcastSink {
	if logger == nil {
		logger = logging.Nop()
	}
	return &BroadcastSink{
		publisher: p,
		source:    source,
		timeout:   2 * time.Second,
		logger:    logger,
	}
}

// Forward publishes n, bounded by the sink's timeout.
func (s *BroadcastSink) Forward(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	ev := &catalog.NotificationEvent{
		ID:            n.ID,
		Message:       n.Message,
		Severity:      n.Severity,
		TTLMs:         n.TTL.Milliseconds(),
		PublishedAtMs: n.PublishedAt.UnixMilli(),
		Source:        s.source,
	}

	if err := s.publisher.PublishNotification(ctx, ev); err != nil {
		metrics.NotificationsBroadcastErrors.Inc()
		s.logger.Warn("failed to broadcast notification", "id", n.ID, "error", err)
	}
}

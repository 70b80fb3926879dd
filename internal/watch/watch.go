// Package watch streams notifications broadcast by form sessions.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/catalog/internal/metrics"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/dyluth/catalog/pkg/catalog"
)

// OutputFormat specifies how streamed notifications are written.
type OutputFormat string

const (
	// OutputFormatDefault renders colored, human-readable lines
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSON writes one JSON object per event
	OutputFormatJSON OutputFormat = "json"
)

// Subscriber opens a notification subscription. *catalog.Client satisfies it.
type Subscriber interface {
	SubscribeNotifications(ctx context.Context) (*catalog.NotificationSubscription, error)
}

// StreamNotifications writes every broadcast notification to w until ctx is
// cancelled or the subscription ends. Malformed events are reported in the
// default format and skipped in JSON format.
func StreamNotifications(ctx context.Context, sub Subscriber, format OutputFormat, w io.Writer) error {
	if format != OutputFormatDefault && format != OutputFormatJSON {
		return fmt.Errorf("unknown output format: %s", format)
	}

	subscription, err := sub.SubscribeNotifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to notifications: %w", err)
	}
	defer subscription.Close()

	renderer := printer.NewRenderer(w)
	events := subscription.Events()
	errs := subscription.Errors()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			metrics.NotificationsReceived.WithLabelValues(string(ev.Severity)).Inc()
			if format == OutputFormatJSON {
				data, err := json.Marshal(ev)
				if err != nil {
					return fmt.Errorf("failed to marshal notification: %w", err)
				}
				if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				continue
			}
			renderer.Notification(ev.Severity, FormatEvent(ev))

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if format == OutputFormatDefault {
				renderer.Notification(catalog.SeverityWarning, fmt.Sprintf("skipping event: %v", err))
			}
		}
	}
}

// FormatEvent renders the text of a notification line (without its icon).
func FormatEvent(ev *catalog.NotificationEvent) string {
	ts := "--:--:--"
	if ev.PublishedAtMs > 0 {
		ts = time.UnixMilli(ev.PublishedAtMs).Format("15:04:05")
	}

	line := fmt.Sprintf("[%s] %s", ts, ev.Message)
	if ev.Source != "" {
		line = fmt.Sprintf("[%s] %s: %s", ts, ev.Source, ev.Message)
	}
	if ev.TTLMs == 0 {
		line += " (sticky)"
	}
	return line
}

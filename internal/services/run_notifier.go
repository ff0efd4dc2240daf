// Package services - Run Notifier (supplemental: run lifecycle pub/sub)
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RunEvent is published whenever a run transitions phase, letting other
// processes (e.g. a UI poller) observe progress without hitting the
// Report table directly.
type RunEvent struct {
	ReportID string `json:"report_id"`
	Phase    string `json:"phase"` // "phase1", "phase2", "committed", "failed"
	Detail   string `json:"detail,omitempty"`
}

// RunNotifier publishes RunEvents over Redis pub/sub, grounded on the
// same redis.Client already wired for MarketOrderCache-style caching.
type RunNotifier struct {
	redis   *redis.Client
	channel string
}

// NewRunNotifier creates a new Run Notifier publishing to the given channel.
func NewRunNotifier(redisClient *redis.Client, channel string) *RunNotifier {
	if channel == "" {
		channel = "replenish:runs"
	}
	return &RunNotifier{redis: redisClient, channel: channel}
}

// Publish emits a RunEvent. Failures are returned, not swallowed, so
// callers can decide whether a notification failure should block the run
// (it should not, by default; see run_service.go).
func (n *RunNotifier) Publish(ctx context.Context, event RunEvent) error {
	if n.redis == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}
	if err := n.redis.Publish(ctx, n.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of decoded RunEvents for the caller to range
// over; close ctx to stop the subscription.
func (n *RunNotifier) Subscribe(ctx context.Context) (<-chan RunEvent, error) {
	if n.redis == nil {
		return nil, fmt.Errorf("run notifier has no redis client configured")
	}

	pubsub := n.redis.Subscribe(ctx, n.channel)
	raw := pubsub.Channel()

	events := make(chan RunEvent)
	go func() {
		defer close(events)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-raw:
				if !ok {
					return
				}
				var event RunEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

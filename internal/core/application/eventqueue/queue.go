// Package eventqueue maps event channels onto a shared list store. One Queue is built per channel
// namespace at startup and passed to every producer and consumer; nothing here is global.
//
// Delivery is at most once: TryPop removes the payload it returns, so two consumers of the same
// channel split its events between them instead of both receiving every event.
package eventqueue

import (
	"context"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/ports"
)

// Queue is safe for concurrent producers and consumers; each operation maps to one atomic store
// operation. HasItems followed by TryPop is not atomic.
type Queue struct {
	store     ports.EventStore
	notifier  ports.EventNotifier
	namespace string
	logger    *slog.Logger
}

// Option customizes a Queue.
type Option func(*Queue)

// WithNotifier enables wake-up notifications on every enqueue.
func WithNotifier(n ports.EventNotifier) Option {
	return func(q *Queue) {
		q.notifier = n
	}
}

// NewQueue creates a queue whose channel keys are prefixed with namespace.
func NewQueue(store ports.EventStore, namespace string, logger *slog.Logger, opts ...Option) *Queue {
	q := &Queue{
		store:     store,
		namespace: namespace,
		logger:    logger.With("component", "EventQueue"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Key returns the store key of a channel.
func (q *Queue) Key(ch event.Channel) string {
	if q.namespace == "" {
		return string(ch)
	}
	return q.namespace + ":" + string(ch)
}

// Enqueue appends payload to the channel. Only store failures are returned; a failed wake-up
// notification is logged because consumers still poll.
func (q *Queue) Enqueue(ctx context.Context, ch event.Channel, payload []byte) error {
	key := q.Key(ch)
	if err := q.store.Push(ctx, key, payload); err != nil {
		return fmt.Errorf("enqueue on %s: %w", ch, err)
	}

	if q.notifier != nil {
		if err := q.notifier.Notify(ctx, key); err != nil {
			q.logger.WarnContext(ctx, "failed to notify consumers", "channel", string(ch), "error", err)
		}
	}
	return nil
}

// TryPop removes and returns the oldest payload of the channel. It never blocks; ok is false
// when the channel is empty.
func (q *Queue) TryPop(ctx context.Context, ch event.Channel) ([]byte, bool, error) {
	payload, ok, err := q.store.Pop(ctx, q.Key(ch))
	if err != nil {
		return nil, false, fmt.Errorf("pop from %s: %w", ch, err)
	}
	return payload, ok, nil
}

// HasItems peeks at the channel without removing anything.
func (q *Queue) HasItems(ctx context.Context, ch event.Channel) (bool, error) {
	n, err := q.Backlog(ctx, ch)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Backlog returns the number of undelivered payloads.
func (q *Queue) Backlog(ctx context.Context, ch event.Channel) (int64, error) {
	n, err := q.store.Len(ctx, q.Key(ch))
	if err != nil {
		return 0, fmt.Errorf("length of %s: %w", ch, err)
	}
	return n, nil
}

// Trim drops the oldest payloads so at most keep remain.
func (q *Queue) Trim(ctx context.Context, ch event.Channel, keep int64) (int64, error) {
	dropped, err := q.store.Trim(ctx, q.Key(ch), keep)
	if err != nil {
		return 0, fmt.Errorf("trim %s: %w", ch, err)
	}
	return dropped, nil
}

// Wakeups signals when any of channels may have received a payload. Without a notifier the
// returned channel is nil and never fires.
func (q *Queue) Wakeups(ctx context.Context, channels ...event.Channel) (<-chan struct{}, error) {
	if q.notifier == nil {
		return nil, nil
	}

	keys := make([]string, 0, len(channels))
	for _, ch := range channels {
		keys = append(keys, q.Key(ch))
	}

	notifications, err := q.notifier.Subscribe(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %v: %w", channels, err)
	}

	wake := make(chan struct{}, 1)
	go func() {
		defer close(wake)
		for range notifications {
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}()
	return wake, nil
}

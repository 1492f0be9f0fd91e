package eventqueue

import (
	"context"

	"fulfillment/internal/core/domain/model/event"
)

// Publisher encodes typed events and enqueues them on the channel bound to their kind.
type Publisher struct {
	queue *Queue
}

func NewPublisher(queue *Queue) *Publisher {
	return &Publisher{queue: queue}
}

// Publish returns an error only when the event cannot be encoded or the store is unavailable.
func (p *Publisher) Publish(ctx context.Context, e event.Event) error {
	payload, err := event.Encode(e)
	if err != nil {
		return err
	}
	return p.queue.Enqueue(ctx, e.Channel(), payload)
}

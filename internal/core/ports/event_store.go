package ports

import (
	"context"
)

// EventStore is a shared store of named FIFO lists of byte payloads.
// Each operation is atomic on its own; no operation blocks waiting for data.
type EventStore interface {
	// Push appends payload to the tail of the list.
	Push(ctx context.Context, key string, payload []byte) error

	// Pop removes and returns the head of the list. ok is false when the list is empty.
	Pop(ctx context.Context, key string) (payload []byte, ok bool, err error)

	// Len returns the number of payloads in the list.
	Len(ctx context.Context, key string) (int64, error)

	// Trim keeps the newest keep payloads and returns how many were dropped.
	Trim(ctx context.Context, key string, keep int64) (int64, error)
}

// EventNotifier signals that a list received a payload. Notifications are hints:
// they may be lost or duplicated, and consumers still poll.
type EventNotifier interface {
	Notify(ctx context.Context, key string) error

	// Subscribe delivers the keys that were notified until ctx is done, then closes the channel.
	Subscribe(ctx context.Context, keys ...string) (<-chan string, error)
}

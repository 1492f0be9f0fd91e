// Package eventstore provides the list stores behind the event queue: an in-process store for
// single-instance deployments and a Redis store shared by several instances.
package eventstore

import (
	"context"
	"slices"
	"sync"
)

const subscriptionBuffer = 16

// MemoryStore keeps every list in process memory. It also implements ports.EventNotifier, so
// streamers in the same process wake up as soon as a payload is pushed.
type MemoryStore struct {
	mu     sync.Mutex
	lists  map[string][][]byte
	subs   map[int]*memorySubscription
	nextID int
}

type memorySubscription struct {
	keys []string
	ch   chan string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lists: make(map[string][][]byte),
		subs:  make(map[int]*memorySubscription),
	}
}

// Push copies payload to the tail of the list.
func (s *MemoryStore) Push(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.lists[key] = append(s.lists[key], slices.Clone(payload))
	s.mu.Unlock()
	return nil
}

// Pop removes the head of the list.
func (s *MemoryStore) Pop(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[key]
	if len(list) == 0 {
		return nil, false, nil
	}

	head := list[0]
	list[0] = nil
	if len(list) == 1 {
		delete(s.lists, key)
	} else {
		s.lists[key] = list[1:]
	}
	return head, true, nil
}

func (s *MemoryStore) Len(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.lists[key])), nil
}

// Trim keeps the newest keep payloads.
func (s *MemoryStore) Trim(ctx context.Context, key string, keep int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	keep = max(keep, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[key]
	dropped := int64(len(list)) - keep
	if dropped <= 0 {
		return 0, nil
	}
	if keep == 0 {
		delete(s.lists, key)
		return dropped, nil
	}
	s.lists[key] = slices.Clone(list[dropped:])
	return dropped, nil
}

// Notify wakes every subscriber of key. Subscribers that are not keeping up miss the
// notification and fall back to polling.
func (s *MemoryStore) Notify(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if !slices.Contains(sub.keys, key) {
			continue
		}
		select {
		case sub.ch <- key:
		default:
		}
	}
	return nil
}

// Subscribe registers for notifications on keys until ctx is done.
func (s *MemoryStore) Subscribe(ctx context.Context, keys ...string) (<-chan string, error) {
	sub := &memorySubscription{
		keys: slices.Clone(keys),
		ch:   make(chan string, subscriptionBuffer),
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(sub.ch)
		s.mu.Unlock()
	}()

	return sub.ch, nil
}

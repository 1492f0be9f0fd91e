package eventstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store interface {
	ports.EventStore
	ports.EventNotifier
}

// storeContract is shared by every store implementation.
func storeContract(t *testing.T, newStore func(t *testing.T) store) {
	t.Run("pop on empty list returns nothing", func(t *testing.T) {
		s := newStore(t)

		payload, ok, err := s.Pop(t.Context(), "empty")

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, payload)
	})

	t.Run("fifo round trip is byte exact", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()
		first := []byte(`{"event":"newOrders","data":{"id":"1"}}`)
		second := []byte{0x00, 0xff, '\n', 'x'}

		require.NoError(t, s.Push(ctx, "k", first))
		require.NoError(t, s.Push(ctx, "k", second))

		n, err := s.Len(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		got, ok, err := s.Pop(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, first, got)

		got, ok, err = s.Pop(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, second, got)

		_, ok, err = s.Pop(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("lists are independent", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		require.NoError(t, s.Push(ctx, "a", []byte("1")))

		n, err := s.Len(ctx, "b")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("trim keeps newest", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()
		for i := range 5 {
			require.NoError(t, s.Push(ctx, "t", []byte(fmt.Sprint(i))))
		}

		dropped, err := s.Trim(ctx, "t", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), dropped)

		got, _, err := s.Pop(ctx, "t")
		require.NoError(t, err)
		assert.Equal(t, "3", string(got))

		dropped, err = s.Trim(ctx, "t", 10)
		require.NoError(t, err)
		assert.Zero(t, dropped)

		dropped, err = s.Trim(ctx, "t", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), dropped)
	})

	t.Run("concurrent consumers never see a payload twice", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()
		const total = 200
		for i := range total {
			require.NoError(t, s.Push(ctx, "c", []byte(fmt.Sprint(i))))
		}

		var (
			mu   sync.Mutex
			seen = make(map[string]int)
			wg   sync.WaitGroup
		)
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					payload, ok, err := s.Pop(ctx, "c")
					if err != nil || !ok {
						return
					}
					mu.Lock()
					seen[string(payload)]++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Len(t, seen, total)
		for payload, count := range seen {
			assert.Equal(t, 1, count, payload)
		}
	})

	t.Run("notify wakes subscriber", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(t.Context())

		wake, err := s.Subscribe(ctx, "n1", "n2")
		require.NoError(t, err)

		require.NoError(t, s.Notify(ctx, "other"))
		require.NoError(t, s.Notify(ctx, "n2"))

		select {
		case key := <-wake:
			assert.Equal(t, "n2", key)
		case <-time.After(5 * time.Second):
			t.Fatal("no notification received")
		}

		cancel()
		assert.Eventually(t, func() bool {
			select {
			case _, open := <-wake:
				return !open
			default:
				return false
			}
		}, 5*time.Second, 10*time.Millisecond)
	})
}

package streaming_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/eventstore"
	"fulfillment/internal/core/application/eventqueue"
	"fulfillment/internal/core/application/streaming"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type frame struct {
	kind event.Kind
	data json.RawMessage
}

type recordingSink struct {
	mu     sync.Mutex
	frames []frame
	err    error
}

func (s *recordingSink) Send(kind event.Kind, data json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame{kind: kind, data: append(json.RawMessage(nil), data...)})
	return nil
}

func (s *recordingSink) snapshot() []frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]frame(nil), s.frames...)
}

type MockSource struct{ mock.Mock }

func (m *MockSource) HasItems(ctx context.Context, ch event.Channel) (bool, error) {
	args := m.Called(ctx, ch)
	return args.Bool(0), args.Error(1)
}

func (m *MockSource) TryPop(ctx context.Context, ch event.Channel) ([]byte, bool, error) {
	args := m.Called(ctx, ch)
	payload, _ := args.Get(0).([]byte)
	return payload, args.Bool(1), args.Error(2)
}

func (m *MockSource) Wakeups(ctx context.Context, channels ...event.Channel) (<-chan struct{}, error) {
	args := m.Called(ctx, channels)
	wake, _ := args.Get(0).(<-chan struct{})
	return wake, args.Error(1)
}

func newQueue(opts ...eventqueue.Option) (*eventqueue.Queue, *eventqueue.Publisher) {
	q := eventqueue.NewQueue(eventstore.NewMemoryStore(), "test", discard, opts...)
	return q, eventqueue.NewPublisher(q)
}

func runAsync(ctx context.Context, s *streaming.Streamer, channels []event.Channel, sink streaming.Sink) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, channels, sink)
	}()
	return done
}

func TestStreamer_ForwardsInOrderAndStopsOnDisconnect(t *testing.T) {
	q, publisher := newQueue()
	orderID := kernel.NewUUID()
	for _, status := range []event.ProcessingStatus{event.Queued, event.Processing, event.Processed} {
		require.NoError(t, publisher.Publish(t.Context(), event.ProcessingStatusChanged{OrderID: orderID, Status: status}))
	}

	ctx, cancel := context.WithCancel(t.Context())
	sink := &recordingSink{}
	done := runAsync(ctx, streaming.NewStreamer(q, discard, streaming.WithPollInterval(10*time.Millisecond)),
		[]event.Channel{event.ChannelProcessingStatus}, sink)

	require.Eventually(t, func() bool { return len(sink.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	frames := sink.snapshot()
	for i, status := range []string{"QUEUED", "PROCESSING", "PROCESSED"} {
		assert.Equal(t, event.KindProcessingStatusChanged, frames[i].kind)
		assert.JSONEq(t, `{"order_id":"`+orderID.String()+`","status":"`+status+`"}`, string(frames[i].data))
	}
}

func TestStreamer_EmptyChannelsJustWait(t *testing.T) {
	q, _ := newQueue()
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	sink := &recordingSink{}
	err := streaming.NewStreamer(q, discard, streaming.WithPollInterval(5*time.Millisecond)).Run(ctx, nil, sink)

	require.NoError(t, err)
	assert.Empty(t, sink.snapshot())
}

func TestStreamer_TwoStreamersSplitEvents(t *testing.T) {
	q, publisher := newQueue()
	const total = 200
	want := make(map[string]struct{}, total)
	for range total {
		id := kernel.NewUUID()
		want[id.String()] = struct{}{}
		require.NoError(t, publisher.Publish(t.Context(), event.FulfillmentStatusChanged{OrderID: id, Status: "SHIPPED"}))
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	streamer := streaming.NewStreamer(q, discard, streaming.WithPollInterval(5*time.Millisecond))
	channels := []event.Channel{event.ChannelFulfillmentStatus}
	first, second := &recordingSink{}, &recordingSink{}
	doneFirst := runAsync(ctx, streamer, channels, first)
	doneSecond := runAsync(ctx, streamer, channels, second)

	require.Eventually(t, func() bool {
		return len(first.snapshot())+len(second.snapshot()) == total
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	for _, done := range []<-chan error{doneFirst, doneSecond} {
		if err := <-done; err != nil {
			require.ErrorIs(t, err, streaming.ErrPeekPopRace)
		}
	}

	seen := make(map[string]struct{}, total)
	for _, f := range append(first.snapshot(), second.snapshot()...) {
		var payload event.FulfillmentStatusChanged
		require.NoError(t, json.Unmarshal(f.data, &payload))
		id := payload.OrderID.String()
		_, dup := seen[id]
		require.False(t, dup, "event %s delivered twice", id)
		seen[id] = struct{}{}
	}
	assert.Equal(t, want, seen)
}

func TestStreamer_EndsOnPeekPopRace(t *testing.T) {
	source := new(MockSource)
	source.On("Wakeups", mock.Anything, mock.Anything).Return(nil, nil).Once()
	source.On("HasItems", mock.Anything, event.ChannelNewOrders).Return(true, nil).Once()
	source.On("TryPop", mock.Anything, event.ChannelNewOrders).Return(nil, false, nil).Once()

	err := streaming.NewStreamer(source, discard).Run(t.Context(), []event.Channel{event.ChannelNewOrders}, &recordingSink{})

	require.ErrorIs(t, err, streaming.ErrPeekPopRace)
	source.AssertExpectations(t)
}

func TestStreamer_QueueErrorEndsTheStream(t *testing.T) {
	storeErr := errors.New("redis: connection refused")
	source := new(MockSource)
	source.On("Wakeups", mock.Anything, mock.Anything).Return(nil, nil).Once()
	source.On("HasItems", mock.Anything, event.ChannelHandlingStatus).Return(false, storeErr).Once()

	err := streaming.NewStreamer(source, discard).Run(t.Context(), []event.Channel{event.ChannelHandlingStatus}, &recordingSink{})

	require.ErrorIs(t, err, storeErr)
	source.AssertExpectations(t)
}

func TestStreamer_SkipsMalformedPayloads(t *testing.T) {
	q, publisher := newQueue()
	require.NoError(t, q.Enqueue(t.Context(), event.ChannelHandlingStatus, []byte("not json")))
	require.NoError(t, q.Enqueue(t.Context(), event.ChannelHandlingStatus, []byte(`{"event":"updatedOrderHandlingStatus"}`)))
	require.NoError(t, publisher.Publish(t.Context(), event.HandlingStatusChanged{
		OrderID: kernel.NewUUID(),
		State:   "SENDING_TRACKING",
		Status:  event.Success,
	}))

	ctx, cancel := context.WithCancel(t.Context())
	sink := &recordingSink{}
	done := runAsync(ctx, streaming.NewStreamer(q, discard, streaming.WithPollInterval(5*time.Millisecond)),
		[]event.Channel{event.ChannelHandlingStatus}, sink)

	require.Eventually(t, func() bool { return len(sink.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	ok, err := q.HasItems(t.Context(), event.ChannelHandlingStatus)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStreamer_SinkErrorEndsTheStream(t *testing.T) {
	q, publisher := newQueue()
	require.NoError(t, publisher.Publish(t.Context(), event.FulfillmentStatusChanged{OrderID: kernel.NewUUID(), Status: "SHIPPED"}))

	writeErr := errors.New("broken pipe")
	err := streaming.NewStreamer(q, discard).Run(t.Context(), nil, &recordingSink{err: writeErr})

	require.ErrorIs(t, err, writeErr)
}

func TestStreamer_WakesUpOnNotification(t *testing.T) {
	store := eventstore.NewMemoryStore()
	q := eventqueue.NewQueue(store, "test", discard, eventqueue.WithNotifier(store))
	publisher := eventqueue.NewPublisher(q)

	ctx, cancel := context.WithCancel(t.Context())
	sink := &recordingSink{}
	done := runAsync(ctx, streaming.NewStreamer(q, discard, streaming.WithPollInterval(time.Hour)),
		[]event.Channel{event.ChannelProcessingStatus}, sink)

	// let the streamer reach its idle wait before publishing
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, publisher.Publish(t.Context(), event.ProcessingStatusChanged{
		OrderID: kernel.NewUUID(),
		Status:  event.Queued,
	}))

	require.Eventually(t, func() bool { return len(sink.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestStreamer_FallsBackToPollingWhenWakeupsFail(t *testing.T) {
	source := new(MockSource)
	source.On("Wakeups", mock.Anything, mock.Anything).Return(nil, errors.New("pubsub down")).Once()
	source.On("HasItems", mock.Anything, mock.Anything).Return(false, nil)

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Millisecond)
	defer cancel()

	err := streaming.NewStreamer(source, discard, streaming.WithPollInterval(5*time.Millisecond)).
		Run(ctx, []event.Channel{event.ChannelNewOrders}, &recordingSink{})

	require.NoError(t, err)
	assert.Greater(t, len(source.Calls), 2)
}

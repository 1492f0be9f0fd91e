// Package streaming forwards queued events to one live viewer until the viewer disconnects.
//
// Events are popped, not copied: two streamers on the same channels split the events between
// them and each event reaches at most one viewer.
package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/event"
)

// DefaultPollInterval is how long an idle streamer waits before polling again.
const DefaultPollInterval = 500 * time.Millisecond

// ErrPeekPopRace ends a stream when a channel reported items but the pop found it empty,
// because another consumer took the item in between.
var ErrPeekPopRace = errors.New("channel was emptied between peek and pop")

// Source is the queue side of a stream.
type Source interface {
	HasItems(ctx context.Context, ch event.Channel) (bool, error)
	TryPop(ctx context.Context, ch event.Channel) ([]byte, bool, error)
	Wakeups(ctx context.Context, channels ...event.Channel) (<-chan struct{}, error)
}

// Sink delivers one event to the viewer.
type Sink interface {
	Send(kind event.Kind, data json.RawMessage) error
}

// Streamer drains channels into a Sink. One Streamer can serve any number of concurrent Runs.
type Streamer struct {
	source       Source
	pollInterval time.Duration
	logger       *slog.Logger
}

type Option func(*Streamer)

func WithPollInterval(d time.Duration) Option {
	return func(s *Streamer) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

func NewStreamer(source Source, logger *slog.Logger, opts ...Option) *Streamer {
	s := &Streamer{
		source:       source,
		pollInterval: DefaultPollInterval,
		logger:       logger.With("component", "Streamer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run forwards events from channels (all channels when empty) until ctx is done, which is a
// normal end and returns nil. It returns ErrPeekPopRace, a queue error or a sink error otherwise.
// Payloads that cannot be decoded are logged and dropped.
func (s *Streamer) Run(ctx context.Context, channels []event.Channel, sink Sink) error {
	if len(channels) == 0 {
		channels = event.Channels()
	}

	wake, err := s.source.Wakeups(ctx, channels...)
	if err != nil {
		s.logger.WarnContext(ctx, "wake-ups unavailable, falling back to polling", "error", err)
		wake = nil
	}

	timer := time.NewTimer(s.pollInterval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return nil
		}

		delivered, drainErr := s.drain(ctx, channels, sink)
		if drainErr != nil {
			if ctx.Err() != nil {
				return nil
			}
			return drainErr
		}
		if delivered > 0 {
			continue
		}

		timer.Reset(s.pollInterval)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		case _, ok := <-wake:
			if !ok {
				wake = nil
			}
		}
	}
}

// drain makes one pass over channels and returns how many events reached the sink.
func (s *Streamer) drain(ctx context.Context, channels []event.Channel, sink Sink) (int, error) {
	delivered := 0
	for _, ch := range channels {
		has, err := s.source.HasItems(ctx, ch)
		if err != nil {
			return delivered, err
		}
		if !has {
			continue
		}

		payload, ok, err := s.source.TryPop(ctx, ch)
		if err != nil {
			return delivered, err
		}
		if !ok {
			s.logger.InfoContext(ctx, "channel emptied by another consumer, closing stream", "channel", string(ch))
			return delivered, ErrPeekPopRace
		}

		envelope, err := event.Decode(payload)
		if err != nil {
			s.logger.WarnContext(ctx, "dropping malformed event", "channel", string(ch), "error", err)
			continue
		}

		if err = sink.Send(envelope.Kind, envelope.Data); err != nil {
			return delivered, fmt.Errorf("forward %s event: %w", envelope.Kind, err)
		}
		delivered++
	}
	return delivered, nil
}

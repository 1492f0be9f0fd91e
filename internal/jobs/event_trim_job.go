package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/event"

	"github.com/robfig/cron/v3"
)

const (
	DefaultTrimSchedule = "*/10 * * * * *"
	DefaultMaxBacklog   = 1000
)

// Trimmer drops the oldest events of a channel beyond keep.
type Trimmer interface {
	Trim(ctx context.Context, ch event.Channel, keep int64) (int64, error)
}

// EventTrimJob bounds every channel so events nobody streams do not pile up forever.
type EventTrimJob struct {
	trimmer    Trimmer
	channels   []event.Channel
	maxBacklog int64
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewEventTrimJob creates the job. schedule is a six-field cron expression (seconds first).
func NewEventTrimJob(trimmer Trimmer, schedule string, maxBacklog int64, logger *slog.Logger) *EventTrimJob {
	if schedule == "" {
		schedule = DefaultTrimSchedule
	}
	if maxBacklog <= 0 {
		maxBacklog = DefaultMaxBacklog
	}
	return &EventTrimJob{
		trimmer:    trimmer,
		channels:   event.Channels(),
		maxBacklog: maxBacklog,
		schedule:   schedule,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "event_trim_job"),
	}
}

// Start registers the job with its schedule and starts the scheduler.
func (j *EventTrimJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Event trim job started", "schedule", j.schedule)
	return nil
}

// RunOnce trims every channel. A failing channel is logged and the others are still trimmed.
func (j *EventTrimJob) RunOnce(ctx context.Context) {
	for _, ch := range j.channels {
		dropped, err := j.trimmer.Trim(ctx, ch, j.maxBacklog)
		if err != nil {
			j.logger.ErrorContext(ctx, "Event trim failed", "channel", string(ch), "error", err)
			continue
		}
		if dropped > 0 {
			j.logger.WarnContext(ctx, "Dropped undelivered events",
				"channel", string(ch), "dropped", dropped, "kept", j.maxBacklog)
		}
	}
}

// Stop stops the scheduler and waits for a running trim to return.
func (j *EventTrimJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Event trim job stopped")
}

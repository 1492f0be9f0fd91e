package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fulfillment/pipeline"

// Publisher publishes events to live viewers.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
}

// Executor runs exactly one stage for one order. Runs are not idempotent: running a stage
// again appends another record.
type Executor struct {
	uowFactory ports.UnitOfWorkFactory
	publisher  Publisher
	clock      func() time.Time
	tracer     trace.Tracer
	logger     *slog.Logger
}

// ExecutorOption customizes an Executor.
type ExecutorOption func(*Executor)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) ExecutorOption {
	return func(e *Executor) {
		e.clock = clock
	}
}

func NewExecutor(
	uowFactory ports.UnitOfWorkFactory,
	publisher Publisher,
	logger *slog.Logger,
	opts ...ExecutorOption,
) *Executor {
	e := &Executor{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      time.Now,
		tracer:     otel.Tracer(tracerName),
		logger:     logger.With("component", "StageExecutor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunStage performs work for run.Order:
//   - the call is timed, started at before and finished at right after it
//   - the handling record and, on success, the stage side effect commit together
//   - the outcome is published on the handling channel after the commit
//
// The returned status is the stage outcome; err is only set for infrastructure failures.
func (e *Executor) RunStage(ctx context.Context, run *Run, work StageWork) (handling.Status, error) {
	stage := work.Stage()
	ctx, span := e.tracer.Start(ctx, "pipeline.RunStage", trace.WithAttributes(
		attribute.String("order.id", run.Order.ID().String()),
		attribute.String("pipeline.stage", stage.String()),
	))
	defer span.End()

	startedAt := e.clock()
	result := work.Call(ctx, run)
	finishedAt := e.clock()
	if finishedAt.Before(startedAt) {
		finishedAt = startedAt
	}

	status, message := handling.Succeeded, ""
	if !result.Response.Succeeded() {
		status, message = handling.Failed, result.Response.Message
	}
	span.SetAttributes(attribute.String("pipeline.status", status.String()))

	if err := e.record(ctx, run, stage, status, message, startedAt, finishedAt, result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return status, err
	}

	outcome := event.Success
	if status == handling.Failed {
		outcome = event.Failure
	}
	if err := e.publisher.Publish(ctx, event.HandlingStatusChanged{
		OrderID: run.Order.ID(),
		State:   stage.String(),
		Status:  outcome,
		Message: message,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return status, fmt.Errorf("publish %s outcome: %w", stage, err)
	}

	e.logger.InfoContext(ctx, "stage finished",
		"order_id", run.Order.ID().String(),
		"stage", stage.String(),
		"status", status.String(),
		"message", message,
		"duration", finishedAt.Sub(startedAt),
	)
	return status, nil
}

func (e *Executor) record(
	ctx context.Context,
	run *Run,
	stage handling.Stage,
	status handling.Status,
	message string,
	startedAt, finishedAt time.Time,
	result Result,
) error {
	record, err := handling.NewRecord(kernel.NewUUID(), run.Order.ID(), stage, status, message, startedAt, finishedAt)
	if err != nil {
		return err
	}

	uow := e.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.HandlingRecordRepository().Add(ctx, record); err != nil {
		return fmt.Errorf("append %s record: %w", stage, err)
	}

	if status == handling.Succeeded && result.Apply != nil {
		if err = result.Apply(ctx, uow); err != nil {
			return fmt.Errorf("apply %s: %w", stage, err)
		}
	}

	return uow.Commit(ctx)
}

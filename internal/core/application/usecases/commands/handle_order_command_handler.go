package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/pipeline"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderNotFound is returned when the order of a handling run does not exist.
var ErrOrderNotFound = errors.New("order not found")

// HandleOrderCommandHandler orchestrates one handling run:
//
//	PROCESSING -> GENERATING_SHIPMENT -> SENDING_TRACKING -> MARKING_AS_SHIPPED -> HANDLED -> PROCESSED, SHIPPED
//
// Stages run sequentially with no retry and no rollback. With ContinueOnFailure a failed stage is
// recorded and published but the run goes on, ending with a HANDLED/SUCCEEDED record and the
// SHIPPED flip. With HaltOnFailure the run stops at the first failed stage and ends with a
// HANDLED/FAILED record; the order keeps its state. Canceled orders are never flipped, and neither
// are orders whose stored state left SHIPPING while the run was in flight.
//
// Example:
//
//	handler := NewHandleOrderCommandHandler(uowFactory, executor, stages, publisher,
//	    pipeline.ContinueOnFailure, logger)
//	cmd, _ := NewHandleOrderCommand(orderID)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    logger.Error("handling run failed", "error", err)
//	}
type HandleOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	runner     StageRunner
	stages     []pipeline.StageWork
	publisher  EventPublisher
	policy     pipeline.FailurePolicy
	clock      func() time.Time
	logger     *slog.Logger
}

func NewHandleOrderCommandHandler(
	uowFactory OrderUoWFactory,
	runner StageRunner,
	stages []pipeline.StageWork,
	publisher EventPublisher,
	policy pipeline.FailurePolicy,
	logger *slog.Logger,
) HandleOrderCommandHandler {
	return HandleOrderCommandHandler{
		uowFactory: uowFactory,
		runner:     runner,
		stages:     stages,
		publisher:  publisher,
		policy:     policy,
		clock:      time.Now,
		logger:     logger.With("component", "HandleOrderCommandHandler"),
	}
}

// WithClock returns a copy of the handler using clock instead of time.Now.
func (h HandleOrderCommandHandler) WithClock(clock func() time.Time) HandleOrderCommandHandler {
	h.clock = clock
	return h
}

// Handle runs every stage for the order. Stage failures are data; the returned error is
// ErrOrderNotFound or an infrastructure failure.
func (h HandleOrderCommandHandler) Handle(ctx context.Context, cmd HandleOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.ErrorContext(ctx, "order to handle does not exist", "order_id", cmd.OrderID().String())
		return fmt.Errorf("%w: %s", ErrOrderNotFound, cmd.OrderID())
	}
	if err != nil {
		return err
	}

	run := pipeline.NewRun(o, h.clock())
	if err = h.publishProcessing(ctx, o.ID(), event.Processing); err != nil {
		return err
	}

	var failedStage handling.Stage
	for _, work := range h.stages {
		status, runErr := h.runner.RunStage(ctx, run, work)
		if runErr != nil {
			return fmt.Errorf("run %s for order %s: %w", work.Stage(), o.ID(), runErr)
		}
		if status != handling.Failed {
			continue
		}
		if failedStage == handling.StageUnknown {
			failedStage = work.Stage()
		}
		if h.policy.Halts() {
			break
		}
	}

	return h.finish(ctx, run, failedStage)
}

func (h HandleOrderCommandHandler) finish(ctx context.Context, run *pipeline.Run, failedStage handling.Stage) error {
	o := run.Order
	status, message, ship := handling.Succeeded, "", true

	switch {
	case failedStage != handling.StageUnknown && h.policy.Halts():
		status, message, ship = handling.Failed, fmt.Sprintf("halted after %s failed", failedStage), false
	case o.IsCanceled():
		status, message, ship = handling.Failed, order.ErrOrderIsCanceled.Error(), false
	case o.State() == order.Shipped:
		status, message, ship = handling.Failed, order.ErrOrderIsShipped.Error(), false
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if ship {
		if err := h.ship(ctx, uow, o); err != nil {
			if !errors.Is(err, order.ErrOrderStateChanged) {
				return err
			}
			h.logger.WarnContext(ctx, "order changed state during handling", "order_id", o.ID().String())
			status, message, ship = handling.Failed, order.ErrOrderStateChanged.Error(), false
		}
	}

	finishedAt := h.clock()
	if finishedAt.Before(run.StartedAt) {
		finishedAt = run.StartedAt
	}
	record, err := handling.NewRecord(kernel.NewUUID(), o.ID(), handling.Handled, status, message, run.StartedAt, finishedAt)
	if err != nil {
		return err
	}
	if err = uow.HandlingRecordRepository().Add(ctx, record); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.publishProcessing(ctx, o.ID(), event.Processed); err != nil {
		return err
	}

	if ship {
		if err = h.publisher.Publish(ctx, event.FulfillmentStatusChanged{
			OrderID: o.ID(),
			Status:  o.State().String(),
		}); err != nil {
			return fmt.Errorf("publish fulfillment status: %w", err)
		}
	}

	h.logger.InfoContext(ctx, "order handled",
		"order_id", o.ID().String(),
		"status", status.String(),
		"shipped", ship,
		"failed_stage", failedStage.String(),
	)
	return nil
}

// ship flips the order to SHIPPED. The repository refuses the write with
// order.ErrOrderStateChanged when the stored order left SHIPPING after it was read.
func (h HandleOrderCommandHandler) ship(ctx context.Context, uow OrderUoW, o *order.Order) error {
	if err := o.MarkShipped(); err != nil {
		return err
	}
	return uow.OrderRepository().Update(ctx, o)
}

func (h HandleOrderCommandHandler) publishProcessing(
	ctx context.Context,
	orderID kernel.UUID,
	status event.ProcessingStatus,
) error {
	if err := h.publisher.Publish(ctx, event.ProcessingStatusChanged{OrderID: orderID, Status: status}); err != nil {
		return fmt.Errorf("publish %s: %w", status, err)
	}
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

var (
	// ErrNoOrderIDs is returned when a batch carries no ids at all.
	ErrNoOrderIDs = errors.New("no order ids were provided")

	// ErrNoOrdersFound is returned when none of the ids resolves to an order.
	ErrNoOrdersFound = errors.New("no orders were found for the provided ids")
)

// HandleOrdersCommandHandler dispatches a batch of orders to the handling pipeline.
//
// For the orders that exist, newest first, it publishes one QUEUED event each and then schedules
// one independent handling run each. It returns as soon as the runs are scheduled.
// Malformed and unknown ids are logged and skipped, as are orders that are already shipped; a
// scheduling failure is logged for its order and does not affect the rest of the batch.
type HandleOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	planner    services.DispatchPlanner
	publisher  EventPublisher
	scheduler  ports.OrderScheduler
	logger     *slog.Logger
}

func NewHandleOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	publisher EventPublisher,
	scheduler ports.OrderScheduler,
	logger *slog.Logger,
) HandleOrdersCommandHandler {
	return HandleOrdersCommandHandler{
		uowFactory: uowFactory,
		planner:    services.NewDispatchPlanner(),
		publisher:  publisher,
		scheduler:  scheduler,
		logger:     logger.With("component", "HandleOrdersCommandHandler"),
	}
}

// Handle returns ErrNoOrderIDs or ErrNoOrdersFound for batches with nothing to do, and an
// infrastructure error when orders cannot be loaded or QUEUED events cannot be published.
func (h HandleOrdersCommandHandler) Handle(ctx context.Context, cmd HandleOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	raw := cmd.OrderIDs()
	if len(raw) == 0 {
		h.logger.ErrorContext(ctx, "no order ids were passed to handle orders")
		return ErrNoOrderIDs
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			h.logger.WarnContext(ctx, "skipping malformed order id", "order_id", s, "error", err)
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		h.logger.ErrorContext(ctx, "no orders were found for the provided ids", "requested", len(raw))
		return ErrNoOrdersFound
	}

	orders, err := h.uowFactory.Create().OrderRepository().FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	plan, err := h.planner.Plan(ids, orders)
	for _, id := range plan.Missing {
		h.logger.ErrorContext(ctx, "order to handle does not exist", "order_id", id.String())
	}
	for _, id := range plan.Shipped {
		h.logger.WarnContext(ctx, "skipping already shipped order", "order_id", id.String())
	}
	if errors.Is(err, services.ErrNothingToDispatch) && len(plan.Shipped) > 0 {
		h.logger.InfoContext(ctx, "every requested order is already shipped", "requested", len(raw))
		return nil
	}
	if errors.Is(err, services.ErrNothingToDispatch) {
		h.logger.ErrorContext(ctx, "no orders were found for the provided ids", "requested", len(raw))
		return ErrNoOrdersFound
	}
	if err != nil {
		return err
	}

	for _, o := range plan.Orders {
		if err = h.publisher.Publish(ctx, event.ProcessingStatusChanged{
			OrderID: o.ID(),
			Status:  event.Queued,
		}); err != nil {
			return fmt.Errorf("publish QUEUED for order %s: %w", o.ID(), err)
		}
	}

	scheduled := 0
	for _, o := range plan.Orders {
		if err = h.scheduler.Schedule(ctx, o.ID()); err != nil {
			h.logger.ErrorContext(ctx, "failed to schedule order", "order_id", o.ID().String(), "error", err)
			continue
		}
		scheduled++
	}

	h.logger.InfoContext(ctx, "orders dispatched",
		"requested", len(raw),
		"queued", len(plan.Orders),
		"scheduled", scheduled,
	)
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderFailure describes an order of the batch that was not created.
type OrderFailure struct {
	Index   int
	Message string
}

// CreateOrdersResult lists the created orders in input order and the failures.
type CreateOrdersResult struct {
	Created  []*order.Order
	Failures []OrderFailure
}

// CreateOrdersCommandHandler creates a batch of orders in one transaction. Each order gets its
// customer, items and an initial WAITING handling record; a savepoint per order lets a failing
// order be undone while the others still commit. After the commit a newOrders event is published
// per created order.
type CreateOrdersCommandHandler struct {
	uowFactory BatchUoWFactory
	publisher  EventPublisher
	clock      func() time.Time
	logger     *slog.Logger
}

func NewCreateOrdersCommandHandler(
	uowFactory BatchUoWFactory,
	publisher EventPublisher,
	logger *slog.Logger,
) CreateOrdersCommandHandler {
	return CreateOrdersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      time.Now,
		logger:     logger.With("component", "CreateOrdersCommandHandler"),
	}
}

// Handle returns an error only for infrastructure failures; invalid orders end up in Failures.
func (h CreateOrdersCommandHandler) Handle(ctx context.Context, cmd CreateOrdersCommand) (CreateOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrdersResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateOrdersResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var (
		result  CreateOrdersResult
		waiting []*handling.Record
	)
	for i, input := range cmd.Orders() {
		o, record, err := h.build(input)
		if err != nil {
			result.Failures = append(result.Failures, OrderFailure{
				Index:   i,
				Message: fmt.Sprintf("Could not create order. Error: %v", err),
			})
			continue
		}

		savepoint := fmt.Sprintf("create_order_%d", i)
		if err = uow.SavePoint(ctx, savepoint); err != nil {
			return CreateOrdersResult{}, err
		}

		if err = h.persist(ctx, uow, o, record); err != nil {
			if rbErr := uow.RollbackTo(ctx, savepoint); rbErr != nil {
				return CreateOrdersResult{}, errors.Join(err, rbErr)
			}
			h.logger.WarnContext(ctx, "order was not created", "index", i, "error", err)
			result.Failures = append(result.Failures, OrderFailure{
				Index:   i,
				Message: fmt.Sprintf("Could not create order. Error: %v", err),
			})
			continue
		}

		result.Created = append(result.Created, o)
		waiting = append(waiting, record)
	}

	if err := uow.Commit(ctx); err != nil {
		return CreateOrdersResult{}, err
	}

	for i, o := range result.Created {
		if err := h.publisher.Publish(ctx, event.NewOrderPlaced(o, waiting[i])); err != nil {
			return result, fmt.Errorf("publish new order %s: %w", o.ID(), err)
		}
	}

	h.logger.InfoContext(ctx, "orders created", "created", len(result.Created), "failed", len(result.Failures))
	return result, nil
}

func (h CreateOrdersCommandHandler) build(input OrderInput) (*order.Order, *handling.Record, error) {
	state := order.Shipping
	if input.State != "" {
		parsed, err := order.ParseState(input.State)
		if err != nil {
			return nil, nil, err
		}
		state = parsed
	}

	customer, err := order.NewCustomer(kernel.NewUUID(), input.Customer.FirstName, input.Customer.LastName, order.Address{
		Line1:   input.Customer.Address1,
		Line2:   input.Customer.Address2,
		ZipCode: input.Customer.ZipCode,
		Country: input.Customer.Country,
	})
	if err != nil {
		return nil, nil, err
	}

	items := make([]order.Item, 0, len(input.Items))
	for _, in := range input.Items {
		price, priceErr := kernel.ParseMoney(in.Price, input.Currency)
		if priceErr != nil {
			return nil, nil, priceErr
		}
		item, itemErr := order.NewItem(kernel.NewUUID(), in.SKU, in.Title, in.MediaURL, price, in.Quantity)
		if itemErr != nil {
			return nil, nil, itemErr
		}
		items = append(items, item)
	}

	now := h.clock()
	placedAt := input.PlacedAt
	if placedAt.IsZero() {
		placedAt = now
	}

	o, err := order.NewOrder(kernel.NewUUID(), customer, items, state, placedAt)
	if err != nil {
		return nil, nil, err
	}

	record, err := handling.NewRecord(kernel.NewUUID(), o.ID(), handling.Waiting, handling.Succeeded, "", now, now)
	if err != nil {
		return nil, nil, err
	}

	return o, record, nil
}

func (h CreateOrdersCommandHandler) persist(
	ctx context.Context,
	uow BatchUoW,
	o *order.Order,
	record *handling.Record,
) error {
	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}
	return uow.HandlingRecordRepository().Add(ctx, record)
}

// Package ports defines the contracts between the application core and its adapters:
// persistence, event storage, wake-up notifications, scheduling and the external marketplace.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates, including their
// customer and items.
type OrderRepository interface {
	// Add persists a new order with its customer and items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the mutable part of an order (its fulfillment state). Writing SHIPPED
	// returns order.ErrOrderStateChanged unless the stored order is still SHIPPING.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id. Returns errs.ErrObjectNotFound when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindByIDs retrieves the existing orders among ids, newest first.
	// Unknown ids are silently absent from the result.
	FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error)
}

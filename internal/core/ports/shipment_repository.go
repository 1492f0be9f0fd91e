package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ShipmentRepository stores at most one shipment per order.
type ShipmentRepository interface {
	Add(ctx context.Context, shipment *order.Shipment) error

	// GetByOrder returns errs.ErrObjectNotFound when the order has no shipment.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*order.Shipment, error)
}

package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// OrderScheduler hands an order to the background handling pipeline.
// Schedule returns once the work is accepted, never after it ran.
type OrderScheduler interface {
	Schedule(ctx context.Context, orderID kernel.UUID) error
}

package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"
)

// HandlingRecordRepository stores the append-only handling audit trail.
// Records are never updated or deleted.
type HandlingRecordRepository interface {
	Add(ctx context.Context, record *handling.Record) error

	// ListByOrder returns the records of an order in the order they were appended.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*handling.Record, error)
}

package ports

import (
	"context"
)

// UnitOfWorkFactory creates a new UnitOfWork per command execution.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories returned by it use the
// transaction started by Begin.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// SavePoint marks a point inside the active transaction that RollbackTo can return to.
	SavePoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error

	OrderRepository() OrderRepository
	HandlingRecordRepository() HandlingRecordRepository
	ShipmentRepository() ShipmentRepository
}

// Package commands contains the use cases that change state: bulk order creation, batch dispatch
// and the per-order handling run. Every command is built through its constructor, validated, and
// executed by a handler that owns its transaction boundaries.
package commands

import (
	"context"

	"fulfillment/internal/core/application/pipeline"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// SavePointManager isolates one part of a transaction so it can be undone alone.
	SavePointManager interface {
		SavePoint(ctx context.Context, name string) error
		RollbackTo(ctx context.Context, name string) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	RecordRepoFactory interface {
		HandlingRecordRepository() ports.HandlingRecordRepository
	}

	// OrderUoW covers orders and their handling records.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		RecordRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// BatchUoW is an OrderUoW with savepoints, used to create many orders in one transaction
	// without letting one bad order abort the others.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   for i, o := range orders {
	//       _ = uow.SavePoint(ctx, name(i))
	//       if err := uow.OrderRepository().Add(ctx, o); err != nil {
	//           _ = uow.RollbackTo(ctx, name(i))
	//       }
	//   }
	//
	//   err = uow.Commit(ctx)
	BatchUoW interface {
		OrderUoW
		SavePointManager
	}

	BatchUoWFactory interface {
		Create() BatchUoW
	}
)

// Collaborators of the handling use cases.
type (
	// EventPublisher publishes events to live viewers.
	EventPublisher interface {
		Publish(ctx context.Context, e event.Event) error
	}

	// StageRunner executes one pipeline stage.
	StageRunner interface {
		RunStage(ctx context.Context, run *pipeline.Run, work pipeline.StageWork) (handling.Status, error)
	}
)

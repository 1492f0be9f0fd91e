package commands_test

import (
	"context"

	"fulfillment/internal/core/application/pipeline"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockRecordRepository struct{ mock.Mock }

func (m *MockRecordRepository) Add(ctx context.Context, r *handling.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecordRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*handling.Record, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*handling.Record), args.Error(1)
}

// MockUoW satisfies both commands.OrderUoW and commands.BatchUoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) SavePoint(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockUoW) RollbackTo(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) HandlingRecordRepository() ports.HandlingRecordRepository {
	args := m.Called()
	return args.Get(0).(ports.HandlingRecordRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockBatchUoWFactory struct{ mock.Mock }

func (m *MockBatchUoWFactory) Create() commands.BatchUoW {
	args := m.Called()
	return args.Get(0).(commands.BatchUoW)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, e event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockScheduler struct{ mock.Mock }

func (m *MockScheduler) Schedule(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockStageRunner struct{ mock.Mock }

func (m *MockStageRunner) RunStage(ctx context.Context, run *pipeline.Run, work pipeline.StageWork) (handling.Status, error) {
	args := m.Called(ctx, run, work)
	return args.Get(0).(handling.Status), args.Error(1)
}

// stubStage is a StageWork whose outcome is decided by the test.
type stubStage struct {
	stage handling.Stage
	resp  ports.ExternalResponse
}

func (s stubStage) Stage() handling.Stage { return s.stage }

func (s stubStage) Call(context.Context, *pipeline.Run) pipeline.Result {
	return pipeline.Result{Response: s.resp}
}

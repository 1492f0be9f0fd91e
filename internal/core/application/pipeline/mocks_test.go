package pipeline_test

import (
	"context"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockUoW) SavePoint(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockUoW) RollbackTo(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}
func (m *MockUoW) HandlingRecordRepository() ports.HandlingRecordRepository {
	return m.Called().Get(0).(ports.HandlingRecordRepository)
}
func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	return m.Called().Get(0).(ports.ShipmentRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() ports.UnitOfWork {
	return m.Called().Get(0).(ports.UnitOfWork)
}

type MockRecordRepository struct{ mock.Mock }

func (m *MockRecordRepository) Add(ctx context.Context, r *handling.Record) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockRecordRepository) ListByOrder(ctx context.Context, id kernel.UUID) ([]*handling.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*handling.Record), args.Error(1)
}

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *order.Shipment) error {
	return m.Called(ctx, s).Error(0)
}
func (m *MockShipmentRepository) GetByOrder(ctx context.Context, id kernel.UUID) (*order.Shipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*order.Shipment)
	return s, args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, e event.Event) error {
	return m.Called(ctx, e).Error(0)
}

type MockCarrier struct{ mock.Mock }

func (m *MockCarrier) CreateShipment(ctx context.Context, o *order.Order) (ports.ShipmentBooking, ports.ExternalResponse) {
	args := m.Called(ctx, o)
	return args.Get(0).(ports.ShipmentBooking), args.Get(1).(ports.ExternalResponse)
}

type MockMarketplace struct{ mock.Mock }

func (m *MockMarketplace) SendTrackingNumber(ctx context.Context, o *order.Order, tracking string) ports.ExternalResponse {
	return m.Called(ctx, o, tracking).Get(0).(ports.ExternalResponse)
}
func (m *MockMarketplace) MarkAsShipped(ctx context.Context, o *order.Order) ports.ExternalResponse {
	return m.Called(ctx, o).Get(0).(ports.ExternalResponse)
}

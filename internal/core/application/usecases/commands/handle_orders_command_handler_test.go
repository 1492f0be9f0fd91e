package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type dispatcherFixture struct {
	factory   *MockOrderUoWFactory
	uow       *MockUoW
	orders    *MockOrderRepository
	publisher *MockPublisher
	scheduler *MockScheduler
}

func newDispatcherFixture() *dispatcherFixture {
	return &dispatcherFixture{
		factory:   new(MockOrderUoWFactory),
		uow:       new(MockUoW),
		orders:    new(MockOrderRepository),
		publisher: new(MockPublisher),
		scheduler: new(MockScheduler),
	}
}

func (f *dispatcherFixture) handler() commands.HandleOrdersCommandHandler {
	return commands.NewHandleOrdersCommandHandler(f.factory, f.publisher, f.scheduler, discardLogger)
}

func (f *dispatcherFixture) expectLoad(ids []kernel.UUID, loaded []*order.Order, err error) {
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("OrderRepository").Return(f.orders).Once()
	f.orders.On("FindByIDs", mock.Anything, ids).Return(loaded, err).Once()
}

func (f *dispatcherFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.scheduler.AssertExpectations(t)
}

func queued(id kernel.UUID) event.ProcessingStatusChanged {
	return event.ProcessingStatusChanged{OrderID: id, Status: event.Queued}
}

func TestHandleOrdersCommandHandler_Handle_SkipsMissingOrders(t *testing.T) {
	// Arrange
	ctx := t.Context()
	a := newTestOrder(t, order.Shipping, time.Now())
	missing := kernel.NewUUID()
	cmd := commands.NewHandleOrdersCommand([]string{a.ID().String(), missing.String()})

	f := newDispatcherFixture()
	f.expectLoad([]kernel.UUID{a.ID(), missing}, []*order.Order{a}, nil)
	mock.InOrder(
		f.publisher.On("Publish", ctx, queued(a.ID())).Return(nil).Once(),
		f.scheduler.On("Schedule", ctx, a.ID()).Return(nil).Once(),
	)

	// Act
	err := f.handler().Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	f.publisher.AssertNumberOfCalls(t, "Publish", 1)
	f.scheduler.AssertNotCalled(t, "Schedule", ctx, missing)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_QueuesNewestFirstBeforeScheduling(t *testing.T) {
	// Arrange
	ctx := t.Context()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	oldest := newTestOrder(t, order.Shipping, base)
	middle := newTestOrder(t, order.Shipping, base.Add(time.Minute))
	newest := newTestOrder(t, order.Shipping, base.Add(2*time.Minute))

	ids := []kernel.UUID{oldest.ID(), newest.ID(), middle.ID()}
	cmd := commands.NewHandleOrdersCommand([]string{ids[0].String(), ids[1].String(), ids[2].String()})

	f := newDispatcherFixture()
	f.expectLoad(ids, []*order.Order{oldest, newest, middle}, nil)
	mock.InOrder(
		f.publisher.On("Publish", ctx, queued(newest.ID())).Return(nil).Once(),
		f.publisher.On("Publish", ctx, queued(middle.ID())).Return(nil).Once(),
		f.publisher.On("Publish", ctx, queued(oldest.ID())).Return(nil).Once(),
		f.scheduler.On("Schedule", ctx, newest.ID()).Return(nil).Once(),
		f.scheduler.On("Schedule", ctx, middle.ID()).Return(nil).Once(),
		f.scheduler.On("Schedule", ctx, oldest.ID()).Return(nil).Once(),
	)

	// Act
	err := f.handler().Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_DuplicateIDsAreDispatchedOnce(t *testing.T) {
	// Arrange
	ctx := t.Context()
	a := newTestOrder(t, order.Shipping, time.Now())
	cmd := commands.NewHandleOrdersCommand([]string{a.ID().String(), a.ID().String()})

	f := newDispatcherFixture()
	f.expectLoad([]kernel.UUID{a.ID(), a.ID()}, []*order.Order{a}, nil)
	f.publisher.On("Publish", ctx, queued(a.ID())).Return(nil).Once()
	f.scheduler.On("Schedule", ctx, a.ID()).Return(nil).Once()

	// Act
	err := f.handler().Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_ShippedOrdersAreNotDispatchedAgain(t *testing.T) {
	// Arrange
	ctx := t.Context()
	pending := newTestOrder(t, order.Shipping, time.Now())
	shipped := newTestOrder(t, order.Shipped, time.Now())
	cmd := commands.NewHandleOrdersCommand([]string{pending.ID().String(), shipped.ID().String()})

	f := newDispatcherFixture()
	f.expectLoad([]kernel.UUID{pending.ID(), shipped.ID()}, []*order.Order{pending, shipped}, nil)
	f.publisher.On("Publish", ctx, queued(pending.ID())).Return(nil).Once()
	f.scheduler.On("Schedule", ctx, pending.ID()).Return(nil).Once()

	// Act
	err := f.handler().Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	f.publisher.AssertNotCalled(t, "Publish", ctx, queued(shipped.ID()))
	f.scheduler.AssertNotCalled(t, "Schedule", ctx, shipped.ID())
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_OnlyShippedOrders(t *testing.T) {
	// Arrange
	ctx := t.Context()
	shipped := newTestOrder(t, order.Shipped, time.Now())
	cmd := commands.NewHandleOrdersCommand([]string{shipped.ID().String()})

	f := newDispatcherFixture()
	f.expectLoad([]kernel.UUID{shipped.ID()}, []*order.Order{shipped}, nil)

	// Act
	err := f.handler().Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.scheduler.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_EmptyBatch(t *testing.T) {
	f := newDispatcherFixture()

	err := f.handler().Handle(t.Context(), commands.NewHandleOrdersCommand(nil))

	require.ErrorIs(t, err, commands.ErrNoOrderIDs)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_OnlyMalformedIDs(t *testing.T) {
	f := newDispatcherFixture()

	err := f.handler().Handle(t.Context(), commands.NewHandleOrdersCommand([]string{"nope", "42"}))

	require.ErrorIs(t, err, commands.ErrNoOrdersFound)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_MalformedIDsAreSkipped(t *testing.T) {
	// Arrange
	ctx := t.Context()
	a := newTestOrder(t, order.Shipping, time.Now())
	cmd := commands.NewHandleOrdersCommand([]string{"nope", a.ID().String()})

	f := newDispatcherFixture()
	f.expectLoad([]kernel.UUID{a.ID()}, []*order.Order{a}, nil)
	f.publisher.On("Publish", ctx, queued(a.ID())).Return(nil).Once()
	f.scheduler.On("Schedule", ctx, a.ID()).Return(nil).Once()

	// Act
	err := f.handler().Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_NoneExist(t *testing.T) {
	// Arrange
	ctx := t.Context()
	ids := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	cmd := commands.NewHandleOrdersCommand([]string{ids[0].String(), ids[1].String()})

	f := newDispatcherFixture()
	f.expectLoad(ids, []*order.Order{}, nil)

	// Act
	err := f.handler().Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrNoOrdersFound)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_LoadError(t *testing.T) {
	// Arrange
	ctx := t.Context()
	id := kernel.NewUUID()
	loadErr := errors.New("database is down")

	f := newDispatcherFixture()
	f.expectLoad([]kernel.UUID{id}, nil, loadErr)

	// Act
	err := f.handler().Handle(ctx, commands.NewHandleOrdersCommand([]string{id.String()}))

	// Assert
	require.ErrorIs(t, err, loadErr)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_ScheduleFailureDoesNotStopTheBatch(t *testing.T) {
	// Arrange
	ctx := t.Context()
	base := time.Now()
	first := newTestOrder(t, order.Shipping, base.Add(time.Second))
	second := newTestOrder(t, order.Shipping, base)
	cmd := commands.NewHandleOrdersCommand([]string{first.ID().String(), second.ID().String()})

	f := newDispatcherFixture()
	f.expectLoad([]kernel.UUID{first.ID(), second.ID()}, []*order.Order{first, second}, nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil).Twice()
	mock.InOrder(
		f.scheduler.On("Schedule", ctx, first.ID()).Return(errors.New("pool stopped")).Once(),
		f.scheduler.On("Schedule", ctx, second.ID()).Return(nil).Once(),
	)

	// Act
	err := f.handler().Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_PublishErrorIsReturned(t *testing.T) {
	// Arrange
	ctx := t.Context()
	a := newTestOrder(t, order.Shipping, time.Now())
	pubErr := errors.New("redis unavailable")

	f := newDispatcherFixture()
	f.expectLoad([]kernel.UUID{a.ID()}, []*order.Order{a}, nil)
	f.publisher.On("Publish", ctx, queued(a.ID())).Return(pubErr).Once()

	// Act
	err := f.handler().Handle(ctx, commands.NewHandleOrdersCommand([]string{a.ID().String()}))

	// Assert
	require.ErrorIs(t, err, pubErr)
	f.scheduler.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestHandleOrdersCommandHandler_Handle_InvalidCommand(t *testing.T) {
	f := newDispatcherFixture()
	var cmd commands.HandleOrdersCommand

	err := f.handler().Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrHandleOrdersCommandIsNotConstructed)
}

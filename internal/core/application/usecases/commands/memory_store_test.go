package commands_test

import (
	"context"
	"fmt"
	"sync"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// memoryStore is a transactional in-memory backend: writes made inside a unit of work become
// visible on Commit and are dropped on Rollback. Reads hand out copies, so a run only sees
// committed state, and writes follow the same rules as the postgres repositories.
type memoryStore struct {
	mu        sync.Mutex
	orders    map[kernel.UUID]*order.Order
	records   []*handling.Record
	shipments map[kernel.UUID]*order.Shipment
}

func newMemoryStore(orders ...*order.Order) *memoryStore {
	s := &memoryStore{
		orders:    make(map[kernel.UUID]*order.Order),
		shipments: make(map[kernel.UUID]*order.Shipment),
	}
	for _, o := range orders {
		s.orders[o.ID()] = snapshot(o, o.State())
	}
	return s
}

func snapshot(o *order.Order, state order.State) *order.Order {
	c, err := order.RestoreOrder(
		o.ID(), o.Customer(), o.Items(), o.TotalPrice(), o.TotalQuantity(), state, o.PlacedAt(), o.CreatedAt(),
	)
	if err != nil {
		panic(err)
	}
	return c
}

func (s *memoryStore) stateOf(orderID kernel.UUID) order.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[orderID]; ok {
		return o.State()
	}
	return order.Unknown
}

// setState changes a stored order outside of any unit of work.
func (s *memoryStore) setState(orderID kernel.UUID, state order.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[orderID] = snapshot(s.orders[orderID], state)
}

func (s *memoryStore) Create() ports.UnitOfWork { return &memoryUoW{store: s} }

func (s *memoryStore) recordsOf(orderID kernel.UUID) []*handling.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*handling.Record
	for _, r := range s.records {
		if r.OrderID().IsEqual(orderID) {
			out = append(out, r)
		}
	}
	return out
}

// orderUoWFactory narrows the store to the interface used by the orchestrator.
type orderUoWFactory struct{ store *memoryStore }

func (f orderUoWFactory) Create() commands.OrderUoW { return &memoryUoW{store: f.store} }

type memoryUoW struct {
	store     *memoryStore
	orders    []*order.Order
	records   []*handling.Record
	shipments []*order.Shipment
}

func (u *memoryUoW) Begin(context.Context) error { return nil }

func (u *memoryUoW) Commit(context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for _, o := range u.orders {
		u.store.orders[o.ID()] = snapshot(o, o.State())
	}
	u.store.records = append(u.store.records, u.records...)
	for _, sh := range u.shipments {
		u.store.shipments[sh.OrderID()] = sh
	}
	u.orders, u.records, u.shipments = nil, nil, nil
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	u.orders, u.records, u.shipments = nil, nil, nil
	return nil
}

func (u *memoryUoW) SavePoint(context.Context, string) error  { return nil }
func (u *memoryUoW) RollbackTo(context.Context, string) error { return nil }

func (u *memoryUoW) OrderRepository() ports.OrderRepository                   { return memoryOrders{u} }
func (u *memoryUoW) HandlingRecordRepository() ports.HandlingRecordRepository { return memoryRecords{u} }
func (u *memoryUoW) ShipmentRepository() ports.ShipmentRepository             { return memoryShipments{u} }

type memoryOrders struct{ uow *memoryUoW }

func (r memoryOrders) Add(_ context.Context, o *order.Order) error {
	r.uow.orders = append(r.uow.orders, o)
	return nil
}

func (r memoryOrders) Update(_ context.Context, o *order.Order) error {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	stored, ok := r.uow.store.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	if o.State() == order.Shipped && stored.State() != order.Shipping {
		return fmt.Errorf("%w: %s", order.ErrOrderStateChanged, o.ID())
	}
	r.uow.orders = append(r.uow.orders, o)
	return nil
}

func (r memoryOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	o, ok := r.uow.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("id", id)
	}
	return snapshot(o, o.State()), nil
}

func (r memoryOrders) FindByIDs(_ context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	var out []*order.Order
	seen := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if o, ok := r.uow.store.orders[id]; ok {
			out = append(out, snapshot(o, o.State()))
		}
	}
	return out, nil
}

type memoryRecords struct{ uow *memoryUoW }

func (r memoryRecords) Add(_ context.Context, record *handling.Record) error {
	r.uow.records = append(r.uow.records, record)
	return nil
}

func (r memoryRecords) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*handling.Record, error) {
	return r.uow.store.recordsOf(orderID), nil
}

type memoryShipments struct{ uow *memoryUoW }

// Add enforces one shipment per order, like the unique index on shipments.order_id.
func (r memoryShipments) Add(_ context.Context, sh *order.Shipment) error {
	r.uow.store.mu.Lock()
	_, exists := r.uow.store.shipments[sh.OrderID()]
	r.uow.store.mu.Unlock()
	for _, staged := range r.uow.shipments {
		exists = exists || staged.OrderID().IsEqual(sh.OrderID())
	}
	if exists {
		return fmt.Errorf("duplicate shipment for order %s", sh.OrderID())
	}
	r.uow.shipments = append(r.uow.shipments, sh)
	return nil
}

func (r memoryShipments) GetByOrder(_ context.Context, orderID kernel.UUID) (*order.Shipment, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	sh, ok := r.uow.store.shipments[orderID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order_id", orderID)
	}
	return sh, nil
}

// recordingPublisher keeps published events in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsCanceled is returned when a canceled order is marked as shipped.
	ErrOrderIsCanceled = errors.New("canceled order cannot be shipped")

	// ErrOrderIsShipped is the outcome of handling an order that was shipped by an earlier run.
	ErrOrderIsShipped = errors.New("order is already shipped")

	// ErrOrderStateChanged is returned by repositories when the stored state moved on since the
	// order was read, so the requested transition no longer applies.
	ErrOrderStateChanged = errors.New("order is no longer in SHIPPING state")
)

// Order is the aggregate root of a placed e-commerce order.
//
// Invariants:
//   - at least one item, all priced in the same currency
//   - the total price and quantity are derived from the items at creation
//   - the fulfillment state only moves SHIPPING -> SHIPPED
//
// The handling pipeline reads orders and flips them to SHIPPED through MarkShipped;
// everything else is fixed once the order is placed.
type Order struct {
	id            kernel.UUID
	customer      Customer
	items         []Item
	totalPrice    kernel.Money
	totalQuantity int
	state         State
	placedAt      time.Time
	createdAt     time.Time

	isConstructed bool
}

// NewOrder places a new order and computes its totals.
//
// Example:
//
//	customer, _ := order.NewCustomer(kernel.NewUUID(), "Ada", "Lovelace", order.Address{
//	    Line1: "12 Marsh St", ZipCode: "10115", Country: "Germany",
//	})
//	o, err := order.NewOrder(kernel.NewUUID(), customer, items, order.Shipping, time.Now())
//	if err != nil {
//	    return err
//	}
func NewOrder(id kernel.UUID, customer Customer, items []Item, state State, placedAt time.Time) (*Order, error) {
	if err := errors.Join(id.Validate(), customer.Validate(), state.Validate(), validateItems(items)); err != nil {
		return nil, err
	}

	total, quantity, err := totals(items)
	if err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		customer:      customer,
		items:         append([]Item(nil), items...),
		totalPrice:    total,
		totalQuantity: quantity,
		state:         state,
		placedAt:      placedAt.UTC(),
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreOrder rebuilds an order from persisted state without recomputing totals.
func RestoreOrder(
	id kernel.UUID,
	customer Customer,
	items []Item,
	totalPrice kernel.Money,
	totalQuantity int,
	state State,
	placedAt, createdAt time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), customer.Validate(), totalPrice.Validate(), state.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		customer:      customer,
		items:         append([]Item(nil), items...),
		totalPrice:    totalPrice,
		totalQuantity: totalQuantity,
		state:         state,
		placedAt:      placedAt.UTC(),
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID          { return o.id }
func (o *Order) Customer() Customer       { return o.customer }
func (o *Order) TotalPrice() kernel.Money { return o.totalPrice }
func (o *Order) TotalQuantity() int       { return o.totalQuantity }
func (o *Order) Currency() string         { return o.totalPrice.Currency() }
func (o *Order) State() State             { return o.state }
func (o *Order) PlacedAt() time.Time      { return o.placedAt }
func (o *Order) CreatedAt() time.Time     { return o.createdAt }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// IsCanceled reports whether the order can never be shipped.
func (o *Order) IsCanceled() bool {
	return o.state == Canceled
}

// MarkShipped flips a SHIPPING order to SHIPPED. Calling it on a shipped order is a no-op.
// Canceled orders return ErrOrderIsCanceled.
func (o *Order) MarkShipped() error {
	if o.state == Canceled {
		return ErrOrderIsCanceled
	}

	next, err := o.state.Ship()
	if err != nil {
		return err
	}

	o.state = next
	return nil
}

func validateItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order_items")
	}

	var joined error
	for i, item := range items {
		if err := item.Validate(); err != nil {
			joined = errors.Join(joined, fmt.Errorf("item %d: %w", i, err))
		}
	}
	return joined
}

func totals(items []Item) (kernel.Money, int, error) {
	total, err := kernel.ZeroMoney(items[0].Price().Currency())
	if err != nil {
		return kernel.Money{}, 0, err
	}

	quantity := 0
	for _, item := range items {
		line, lineErr := item.Price().Times(item.Quantity())
		if lineErr != nil {
			return kernel.Money{}, 0, lineErr
		}
		if total, err = total.Add(line); err != nil {
			return kernel.Money{}, 0, err
		}
		quantity += item.Quantity()
	}

	if quantity > maxItemQuantity {
		return kernel.Money{}, 0, errs.NewValueIsOutOfRangeError("total_quantity", quantity, 1, maxItemQuantity)
	}

	return total, quantity, nil
}

package commands

import (
	"errors"
	"slices"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxOrdersPerBatch = 100

var (
	ErrCreateOrdersCommandIsNotConstructed = errors.New(
		"CreateOrdersCommand must be created via NewCreateOrdersCommand constructor",
	)
	ErrNoOrdersToCreate = errors.New("at least one order is required")
)

// CustomerInput is the customer of an order to create.
type CustomerInput struct {
	FirstName string
	LastName  string
	Address1  string
	Address2  string
	ZipCode   string
	Country   string
}

// ItemInput is one order line. Price is a decimal string in the order currency.
type ItemInput struct {
	SKU      string
	Title    string
	MediaURL string
	Price    string
	Quantity int
}

// OrderInput is one order to create. An empty State means SHIPPING and a zero PlacedAt means now.
type OrderInput struct {
	State    string
	Currency string
	PlacedAt time.Time
	Customer CustomerInput
	Items    []ItemInput
}

// CreateOrdersCommand creates a batch of orders. Orders are validated one by one by the handler
// so that a bad order is reported without rejecting the batch.
//
// Example:
//
//	cmd, err := NewCreateOrdersCommand([]OrderInput{{
//	    Currency: "EUR",
//	    Customer: CustomerInput{FirstName: "Ada", LastName: "Lovelace", Address1: "12 Marsh St",
//	        ZipCode: "10115", Country: "Germany"},
//	    Items: []ItemInput{{SKU: "AB12CD", Title: "Compact Bamboo Notebook", Price: "7.90", Quantity: 2}},
//	}})
//	result, err := handler.Handle(ctx, cmd)
type CreateOrdersCommand struct {
	orders []OrderInput

	guard guard.ConstructorGuard
}

func NewCreateOrdersCommand(orders []OrderInput) (CreateOrdersCommand, error) {
	switch {
	case len(orders) == 0:
		return CreateOrdersCommand{}, ErrNoOrdersToCreate
	case len(orders) > maxOrdersPerBatch:
		return CreateOrdersCommand{}, errs.NewValueIsOutOfRangeError("orders", len(orders), 1, maxOrdersPerBatch)
	}

	return CreateOrdersCommand{
		orders: slices.Clone(orders),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrdersCommandIsNotConstructed)
}

func (c CreateOrdersCommand) Orders() []OrderInput {
	return slices.Clone(c.orders)
}

package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrHandleOrderCommandIsNotConstructed = errors.New(
	"HandleOrderCommand must be created via NewHandleOrderCommand constructor",
)

// HandleOrderCommand runs the whole fulfillment pipeline for one order.
//
// Example:
//
//	cmd, err := NewHandleOrderCommand(orderID)
//	if err != nil {
//	    return err
//	}
//	return handler.Handle(ctx, cmd)
type HandleOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewHandleOrderCommand(orderID kernel.UUID) (HandleOrderCommand, error) {
	cmd := HandleOrderCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setOrderID(orderID); err != nil {
		return HandleOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c HandleOrderCommand) Validate() error {
	return c.guard.Validate(ErrHandleOrderCommandIsNotConstructed)
}

func (c HandleOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *HandleOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

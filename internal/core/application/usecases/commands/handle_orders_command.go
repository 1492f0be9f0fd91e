package commands

import (
	"errors"
	"slices"

	"fulfillment/internal/pkg/guard"
)

var ErrHandleOrdersCommandIsNotConstructed = errors.New(
	"HandleOrdersCommand must be created via NewHandleOrdersCommand constructor",
)

// HandleOrdersCommand asks for a batch of orders to be handled. Ids are kept as received;
// the handler reports malformed and unknown ones.
type HandleOrdersCommand struct {
	orderIDs []string

	guard guard.ConstructorGuard
}

func NewHandleOrdersCommand(orderIDs []string) HandleOrdersCommand {
	return HandleOrdersCommand{
		orderIDs: slices.Clone(orderIDs),
		guard:    guard.NewConstructorGuard(),
	}
}

func (c HandleOrdersCommand) Validate() error {
	return c.guard.Validate(ErrHandleOrdersCommandIsNotConstructed)
}

func (c HandleOrdersCommand) OrderIDs() []string {
	return slices.Clone(c.orderIDs)
}

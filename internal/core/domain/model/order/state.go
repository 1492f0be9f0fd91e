package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// State is the fulfillment state of an order.
//
//	SHIPPING ──> SHIPPED
//	CANCELED (terminal, never shipped)
//
// SHIPPED is terminal as well; marking an already shipped order is a no-op.
type State int

const (
	// Unknown catches uninitialized State values.
	Unknown State = iota

	// Shipping orders wait for (or are in) the handling pipeline.
	Shipping

	// Shipped orders went through the pipeline to the HANDLED stage.
	Shipped

	// Canceled orders are never shipped.
	Canceled
)

var stateNames = map[State]string{
	Shipping: "SHIPPING",
	Shipped:  "SHIPPED",
	Canceled: "CANCELED",
}

// ParseState converts the persisted or transported label back to a State.
func ParseState(s string) (State, error) {
	for state, name := range stateNames {
		if name == s {
			return state, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a valid state", s))
}

// Validate rejects Unknown and out of range values.
func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// String returns the upper-case label used on the wire and in the database.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Ship returns the state after a successful handling run.
func (s State) Ship() (State, error) {
	switch s {
	case Shipping, Shipped:
		return Shipped, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"state",
			fmt.Errorf("%s is not a valid state to ship", s),
		)
	}
}

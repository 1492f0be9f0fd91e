package services

import (
	"errors"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ErrNothingToDispatch is returned when none of the requested orders exists or still needs shipping.
var ErrNothingToDispatch = errors.New("no orders to dispatch")

// DispatchPlan is the outcome of planning a batch: the orders to hand to the pipeline,
// newest first, the requested ids that did not resolve to an order and the orders that
// were already shipped.
type DispatchPlan struct {
	Orders  []*order.Order
	Missing []kernel.UUID
	Shipped []kernel.UUID
}

// DispatchPlanner is a domain service that turns a batch of requested order ids and the orders
// loaded for them into a dispatch plan.
//
// Business rules:
//   - every order appears once, even if its id was requested several times
//   - orders are dispatched in descending creation time, the order viewers list them in
//   - ids that did not resolve are reported, never dispatched
//   - shipped orders are reported, never dispatched again
//   - canceled orders are still dispatched; the pipeline records why they cannot ship
//
// Example usage:
//
//	planner := services.NewDispatchPlanner()
//	plan, err := planner.Plan(ids, loaded)
//	if errors.Is(err, services.ErrNothingToDispatch) {
//	    return
//	}
//	for _, o := range plan.Orders {
//	    // publish QUEUED, schedule
//	}
type DispatchPlanner struct{}

// NewDispatchPlanner creates a new DispatchPlanner instance.
func NewDispatchPlanner() DispatchPlanner {
	return DispatchPlanner{}
}

// Plan validates the loaded orders and orders them for dispatch.
func (p DispatchPlanner) Plan(requested []kernel.UUID, loaded []*order.Order) (DispatchPlan, error) {
	byID := make(map[kernel.UUID]*order.Order, len(loaded))
	for _, o := range loaded {
		if err := o.Validate(); err != nil {
			return DispatchPlan{}, err
		}
		byID[o.ID()] = o
	}

	var plan DispatchPlan
	seen := make(map[kernel.UUID]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		o, ok := byID[id]
		switch {
		case !ok:
			plan.Missing = append(plan.Missing, id)
		case o.State() == order.Shipped:
			plan.Shipped = append(plan.Shipped, id)
		default:
			plan.Orders = append(plan.Orders, o)
		}
	}

	if len(plan.Orders) == 0 {
		return plan, ErrNothingToDispatch
	}

	sort.SliceStable(plan.Orders, func(i, j int) bool {
		return plan.Orders[i].CreatedAt().After(plan.Orders[j].CreatedAt())
	})

	return plan, nil
}

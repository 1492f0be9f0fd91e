// Package order contains the order aggregate and the entities the fulfillment pipeline touches:
// the customer, the order lines and the carrier shipment.
//
// An order is placed in SHIPPING or CANCELED state. The handling pipeline flips SHIPPING orders to
// SHIPPED once all stages ran; canceled orders are never shipped.
//
//	o, err := order.NewOrder(id, customer, items, order.Shipping, placedAt)
//	...
//	if err := o.MarkShipped(); errors.Is(err, order.ErrOrderIsCanceled) {
//	    // record the failure, do not publish SHIPPED
//	}
package order

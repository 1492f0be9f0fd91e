// Package kernel holds the value objects shared by the fulfillment aggregates:
//   - UUID: validated identifier for orders, shipments and handling records
//   - Money: non-negative decimal amount with an ISO 4217 currency
//
// Both are immutable and safe for concurrent use.
package kernel

// Package services contains domain services that operate on several aggregates at once and do not
// belong to any single one of them.
//
// DispatchPlanner decides which orders of a handling batch reach the pipeline and in which order.
// It is stateless and performs no I/O; loading the orders and publishing events is left to the
// application layer.
package services

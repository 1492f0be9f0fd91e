// Package queries contains the read side: queries go straight to the database through raw SQL
// and return read models shaped for the HTTP layer.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetFulfillmentHistoryQueryIsNotConstructed = errors.New(
	"GetFulfillmentHistoryQuery must be created via NewGetFulfillmentHistoryQuery constructor",
)

// GetFulfillmentHistoryQuery returns every handling record of one order, in the order the
// records were appended.
//
// Example:
//
//	query, err := NewGetFulfillmentHistoryQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	history, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order
//	}
type GetFulfillmentHistoryQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetFulfillmentHistoryQuery(orderID kernel.UUID) (GetFulfillmentHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetFulfillmentHistoryQuery{}, err
	}

	return GetFulfillmentHistoryQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetFulfillmentHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetFulfillmentHistoryQueryIsNotConstructed)
}

func (q GetFulfillmentHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetFulfillmentHistoryQueryResponse is the order state plus its audit trail.
type GetFulfillmentHistoryQueryResponse struct {
	OrderID kernel.UUID
	State   string
	Records []HandlingRecordView
}

// HandlingRecordView is one handling record as read from storage.
type HandlingRecordView struct {
	ID         kernel.UUID
	Stage      string
	Status     string
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
	CreatedAt  time.Time
}

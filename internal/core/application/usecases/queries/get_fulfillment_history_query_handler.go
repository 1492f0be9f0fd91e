package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetFulfillmentHistoryQueryHandler reads the history with two statements: the order state,
// then its records. An unknown order is reported as errs.ErrObjectNotFound.
type GetFulfillmentHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetFulfillmentHistoryQueryHandler(db *gorm.DB) GetFulfillmentHistoryQueryHandler {
	return GetFulfillmentHistoryQueryHandler{db: db}
}

func (h GetFulfillmentHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetFulfillmentHistoryQuery,
) (GetFulfillmentHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetFulfillmentHistoryQueryResponse{}, err
	}

	orderID := query.OrderID()
	var state string
	err := h.db.WithContext(ctx).
		Raw(`SELECT state FROM orders WHERE id = ?`, orderID.Bytes()).
		Row().
		Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return GetFulfillmentHistoryQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
	}
	if err != nil {
		return GetFulfillmentHistoryQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			stage,
			status,
			message,
			started_at,
			finished_at,
			created_at
		FROM handling_records
		WHERE order_id = ?
		ORDER BY seq
	`, orderID.Bytes()).Rows()
	if err != nil {
		return GetFulfillmentHistoryQueryResponse{}, err
	}
	defer rows.Close()

	response := GetFulfillmentHistoryQueryResponse{
		OrderID: orderID,
		State:   state,
		Records: make([]HandlingRecordView, 0),
	}
	for rows.Next() {
		var (
			view    HandlingRecordView
			id      uuid.UUID
			message sql.NullString
		)
		if err = rows.Scan(
			&id,
			&view.Stage,
			&view.Status,
			&message,
			&view.StartedAt,
			&view.FinishedAt,
			&view.CreatedAt,
		); err != nil {
			return GetFulfillmentHistoryQueryResponse{}, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return GetFulfillmentHistoryQueryResponse{}, idErr
		}
		view.ID = recordID
		view.Message = message.String

		response.Records = append(response.Records, view)
	}

	if err = rows.Err(); err != nil {
		return GetFulfillmentHistoryQueryResponse{}, err
	}

	return response, nil
}

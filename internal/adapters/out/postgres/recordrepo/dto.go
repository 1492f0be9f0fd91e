// Package recordrepo persists the append-only handling audit trail.
package recordrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RecordDTO is one handling_records row. Seq is assigned by the database and gives the append order.
type RecordDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int64     `gorm:"autoIncrement;not null;uniqueIndex"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Stage      string    `gorm:"type:varchar(32);not null"`
	Status     string    `gorm:"type:varchar(16);not null"`
	Message    string    `gorm:"type:text"`
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (RecordDTO) TableName() string {
	return "handling_records"
}

func fromDomain(r *handling.Record) RecordDTO {
	return RecordDTO{
		ID:         r.ID().Bytes(),
		OrderID:    r.OrderID().Bytes(),
		Stage:      r.Stage().String(),
		Status:     r.Status().String(),
		Message:    r.Message(),
		StartedAt:  r.StartedAt(),
		FinishedAt: r.FinishedAt(),
		CreatedAt:  r.CreatedAt(),
	}
}

func toDomain(dto RecordDTO) (*handling.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	stage, err := handling.ParseStage(dto.Stage)
	if err != nil {
		return nil, err
	}

	status, err := handling.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return handling.RestoreRecord(id, orderID, stage, status, dto.Message, dto.StartedAt, dto.FinishedAt, dto.CreatedAt)
}

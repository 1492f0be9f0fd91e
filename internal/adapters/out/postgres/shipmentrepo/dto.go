// Package shipmentrepo persists carrier shipments, at most one per order.
package shipmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

type ShipmentDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ShipmentID  string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CarrierName string    `gorm:"type:varchar(255);not null"`
	CarrierCode string    `gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

func fromDomain(s *order.Shipment) ShipmentDTO {
	return ShipmentDTO{
		ID:          s.ID().Bytes(),
		OrderID:     s.OrderID().Bytes(),
		ShipmentID:  s.ShipmentID(),
		CarrierName: s.CarrierName(),
		CarrierCode: s.CarrierCode(),
		CreatedAt:   s.CreatedAt(),
	}
}

func toDomain(dto ShipmentDTO) (*order.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return order.NewShipment(id, orderID, dto.ShipmentID, dto.CarrierName, dto.CarrierCode, dto.CreatedAt)
}

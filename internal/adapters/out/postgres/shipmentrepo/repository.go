package shipmentrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormShipmentRepository implements ports.ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db *gorm.DB
}

func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// Add fails on a second shipment for the same order or a reused carrier shipment id.
func (r *GormShipmentRepository) Add(ctx context.Context, shipment *order.Shipment) error {
	if err := shipment.Validate(); err != nil {
		return err
	}

	dto := fromDomain(shipment)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormShipmentRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*order.Shipment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("shipment", orderID.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

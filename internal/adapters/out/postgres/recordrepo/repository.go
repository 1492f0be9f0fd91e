package recordrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormRecordRepository implements ports.HandlingRecordRepository using GORM.
type GormRecordRepository struct {
	db *gorm.DB
}

func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

func (r *GormRecordRepository) Add(ctx context.Context, record *handling.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormRecordRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*handling.Record, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RecordDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Order("seq").Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]*handling.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

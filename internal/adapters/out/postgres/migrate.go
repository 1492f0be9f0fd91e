package postgres

import (
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/recordrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in creation order.
func Models() []any {
	return []any{
		&orderrepo.CustomerDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&recordrepo.RecordDTO{},
		&shipmentrepo.ShipmentDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

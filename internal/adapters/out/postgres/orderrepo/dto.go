// Package orderrepo persists order aggregates with their customer and items.
// Amounts are stored as numeric(19,4) and read back as decimals trimmed to cents.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

// moneyScale is the number of fractional digits money is presented with once read back.
const moneyScale = 2

// OrderDTO is the orders row. Customer and Items are loaded with Preload.
type OrderDTO struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Customer      CustomerDTO    `gorm:"foreignKey:CustomerID"`
	Items         []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalPrice    string         `gorm:"type:numeric(19,4);not null"`
	TotalQuantity int            `gorm:"type:int;not null"`
	State         string         `gorm:"type:varchar(16);not null;index"`
	Currency      string         `gorm:"type:char(3);not null"`
	PlacedAt      time.Time      `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"not null;index"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type CustomerDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"type:varchar(255);not null"`
	LastName  string    `gorm:"type:varchar(255);not null"`
	Address1  string    `gorm:"type:varchar(255);not null"`
	Address2  string    `gorm:"type:varchar(255)"`
	ZipCode   string    `gorm:"type:varchar(32);not null"`
	Country   string    `gorm:"type:varchar(128);not null"`
}

func (CustomerDTO) TableName() string {
	return "customers"
}

// OrderItemDTO is one order line. Position keeps the input order of the lines.
type OrderItemDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Position        int       `gorm:"type:int;not null"`
	ProductSKU      string    `gorm:"type:varchar(64);not null"`
	ProductTitle    string    `gorm:"type:varchar(255);not null"`
	ProductMediaURL string    `gorm:"type:text"`
	Price           string    `gorm:"type:numeric(19,4);not null"`
	Quantity        int       `gorm:"type:smallint;not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()
	customer := o.Customer()

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, OrderItemDTO{
			ID:              item.ID().Bytes(),
			OrderID:         orderID,
			Position:        i,
			ProductSKU:      item.SKU(),
			ProductTitle:    item.Title(),
			ProductMediaURL: item.MediaURL(),
			Price:           item.Price().Amount().String(),
			Quantity:        item.Quantity(),
		})
	}

	return OrderDTO{
		ID:         orderID,
		CustomerID: customer.ID().Bytes(),
		Customer: CustomerDTO{
			ID:        customer.ID().Bytes(),
			FirstName: customer.FirstName(),
			LastName:  customer.LastName(),
			Address1:  customer.Address().Line1,
			Address2:  customer.Address().Line2,
			ZipCode:   customer.Address().ZipCode,
			Country:   customer.Address().Country,
		},
		Items:         items,
		TotalPrice:    o.TotalPrice().Amount().String(),
		TotalQuantity: o.TotalQuantity(),
		State:         o.State().String(),
		Currency:      o.Currency(),
		PlacedAt:      o.PlacedAt(),
		CreatedAt:     o.CreatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := customerToDomain(dto.Customer)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO, dto.Currency)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	total, err := money(dto.TotalPrice, dto.Currency)
	if err != nil {
		return nil, err
	}

	state, err := order.ParseState(dto.State)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, customer, items, total, dto.TotalQuantity, state, dto.PlacedAt, dto.CreatedAt)
}

func customerToDomain(dto CustomerDTO) (order.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Customer{}, err
	}

	return order.NewCustomer(id, dto.FirstName, dto.LastName, order.Address{
		Line1:   dto.Address1,
		Line2:   dto.Address2,
		ZipCode: dto.ZipCode,
		Country: dto.Country,
	})
}

func itemToDomain(dto OrderItemDTO, currency string) (order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Item{}, err
	}

	price, err := money(dto.Price, currency)
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(id, dto.ProductSKU, dto.ProductTitle, dto.ProductMediaURL, price, dto.Quantity)
}

func money(amount, currency string) (kernel.Money, error) {
	d, err := decimal.Parse(amount)
	if err != nil {
		return kernel.Money{}, err
	}
	return kernel.NewMoney(d.Trim(moneyScale), currency)
}

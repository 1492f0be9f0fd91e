package event

import (
	"time"

	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/order"
)

// OrderSnapshot is the order as shown to viewers of the new-orders channel.
type OrderSnapshot struct {
	ID              string           `json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	TotalPrice      string           `json:"total_price"`
	TotalQuantity   int              `json:"total_quantity"`
	State           string           `json:"state"`
	CurrencyISOCode string           `json:"currency_iso_code"`
	PlacedAt        time.Time        `json:"placed_at"`
	Items           []ItemSnapshot   `json:"order_items"`
	Customer        CustomerSnapshot `json:"customer"`
	LatestHandling  *RecordSnapshot  `json:"latest_handling_process"`
}

type ItemSnapshot struct {
	ID              string `json:"id"`
	ProductSKU      string `json:"product_sku"`
	ProductTitle    string `json:"product_title"`
	ProductMediaURL string `json:"product_media_url,omitempty"`
	Price           string `json:"price"`
	Quantity        int    `json:"quantity"`
}

type CustomerSnapshot struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// RecordSnapshot is a handling record as shown to viewers and in the fulfillment history.
type RecordSnapshot struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status"`
	State      string    `json:"state"`
	Message    string    `json:"message,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewOrderPlaced builds the event for a freshly created order. latest may be nil.
func NewOrderPlaced(o *order.Order, latest *handling.Record) OrderPlaced {
	items := o.Items()
	snapshot := OrderSnapshot{
		ID:              o.ID().String(),
		CreatedAt:       o.CreatedAt(),
		TotalPrice:      o.TotalPrice().Amount().String(),
		TotalQuantity:   o.TotalQuantity(),
		State:           o.State().String(),
		CurrencyISOCode: o.Currency(),
		PlacedAt:        o.PlacedAt(),
		Items:           make([]ItemSnapshot, 0, len(items)),
		Customer:        newCustomerSnapshot(o.Customer()),
	}

	for _, item := range items {
		snapshot.Items = append(snapshot.Items, ItemSnapshot{
			ID:              item.ID().String(),
			ProductSKU:      item.SKU(),
			ProductTitle:    item.Title(),
			ProductMediaURL: item.MediaURL(),
			Price:           item.Price().Amount().String(),
			Quantity:        item.Quantity(),
		})
	}

	if latest != nil {
		rec := NewRecordSnapshot(latest)
		snapshot.LatestHandling = &rec
	}

	return OrderPlaced{Order: snapshot}
}

// NewRecordSnapshot converts a handling record for display.
func NewRecordSnapshot(r *handling.Record) RecordSnapshot {
	return RecordSnapshot{
		ID:         r.ID().String(),
		CreatedAt:  r.CreatedAt(),
		Status:     r.Status().String(),
		State:      r.Stage().String(),
		Message:    r.Message(),
		StartedAt:  r.StartedAt(),
		FinishedAt: r.FinishedAt(),
	}
}

func newCustomerSnapshot(c order.Customer) CustomerSnapshot {
	addr := c.Address()
	return CustomerSnapshot{
		ID:        c.ID().String(),
		FirstName: c.FirstName(),
		LastName:  c.LastName(),
		Address1:  addr.Line1,
		Address2:  addr.Line2,
		ZipCode:   addr.ZipCode,
		Country:   addr.Country,
	}
}

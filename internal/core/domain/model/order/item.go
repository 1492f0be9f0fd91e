package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const maxItemQuantity = 32767

// ErrItemIsNotConstructed is returned when a zero-value Item is validated.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one order line.
type Item struct {
	id       kernel.UUID
	sku      string
	title    string
	mediaURL string
	price    kernel.Money
	quantity int
}

// NewItem validates one order line. mediaURL may be empty.
//
// Example:
//
//	price, _ := kernel.ParseMoney("7.90", "EUR")
//	item, err := order.NewItem(kernel.NewUUID(), "AB12CD", "Compact Bamboo Notebook", "", price, 2)
func NewItem(id kernel.UUID, sku, title, mediaURL string, price kernel.Money, quantity int) (Item, error) {
	if err := errors.Join(
		id.Validate(),
		required("product_sku", sku),
		required("product_title", title),
		price.Validate(),
		validateQuantity(quantity),
	); err != nil {
		return Item{}, err
	}

	return Item{
		id:       id,
		sku:      sku,
		title:    title,
		mediaURL: mediaURL,
		price:    price,
		quantity: quantity,
	}, nil
}

func (i Item) ID() kernel.UUID     { return i.id }
func (i Item) SKU() string         { return i.sku }
func (i Item) Title() string       { return i.title }
func (i Item) MediaURL() string    { return i.mediaURL }
func (i Item) Price() kernel.Money { return i.price }
func (i Item) Quantity() int       { return i.quantity }

// Validate rejects the zero value.
func (i Item) Validate() error {
	if i.id.Validate() != nil {
		return ErrItemIsNotConstructed
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 || quantity > maxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxItemQuantity)
	}
	return nil
}

package order

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrCustomerIsNotConstructed is returned when a zero-value Customer is validated.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Address is the shipping destination of a customer. Line2 is optional.
type Address struct {
	Line1   string
	Line2   string
	ZipCode string
	Country string
}

// Customer is the buyer of an order. Each order has exactly one.
type Customer struct {
	id        kernel.UUID
	firstName string
	lastName  string
	address   Address
}

// NewCustomer validates the required name and address fields.
func NewCustomer(id kernel.UUID, firstName, lastName string, address Address) (Customer, error) {
	if err := errors.Join(
		id.Validate(),
		required("first_name", firstName),
		required("last_name", lastName),
		required("address1", address.Line1),
		required("zip_code", address.ZipCode),
		required("country", address.Country),
	); err != nil {
		return Customer{}, err
	}

	return Customer{
		id:        id,
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
		address:   address,
	}, nil
}

func (c Customer) ID() kernel.UUID   { return c.id }
func (c Customer) FirstName() string { return c.firstName }
func (c Customer) LastName() string  { return c.lastName }
func (c Customer) Address() Address  { return c.address }
func (c Customer) FullName() string  { return c.firstName + " " + c.lastName }

// Validate rejects the zero value.
func (c Customer) Validate() error {
	if c.id.Validate() != nil {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

func required(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}

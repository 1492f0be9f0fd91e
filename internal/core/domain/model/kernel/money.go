package kernel

import (
	"errors"
	"fmt"
	"regexp"

	"fulfillment/internal/pkg/errs"

	"github.com/govalues/decimal"
)

// ErrMoneyIsNotConstructed is returned when a zero-value Money is validated.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("Money must be created via NewMoney or ParseMoney")

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Money is a non-negative decimal amount in an ISO 4217 currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates the amount sign and the currency code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := errors.Join(validateAmount(amount), validateCurrency(currency)); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: currency}, nil
}

// ParseMoney is NewMoney for amounts stored or transported as text.
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.Parse(amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d, currency)
}

// ZeroMoney returns an empty amount in the given currency.
func ZeroMoney(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the ISO 4217 code.
func (m Money) Currency() string {
	return m.currency
}

// Validate rejects the zero value.
func (m Money) Validate() error {
	if m.currency == "" {
		return ErrMoneyIsNotConstructed
	}
	return nil
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"currency",
			fmt.Errorf("cannot add %s to %s", other.currency, m.currency),
		)
	}
	sum, err := m.amount.Add(other.amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Times multiplies the amount by a quantity.
func (m Money) Times(quantity int) (Money, error) {
	q, err := decimal.New(int64(quantity), 0)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("quantity", err)
	}
	product, err := m.amount.Mul(q)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(product, m.currency)
}

// IsEqual compares amount and currency.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Cmp(other.amount) == 0
}

// String renders "12.50 EUR".
func (m Money) String() string {
	return m.amount.String() + " " + m.currency
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNeg() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}
	return nil
}

func validateCurrency(currency string) error {
	if currency == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	if !currencyPattern.MatchString(currency) {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
	}
	return nil
}

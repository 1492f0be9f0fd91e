package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, state order.State, createdAt time.Time) *order.Order {
	t.Helper()

	customer, err := order.NewCustomer(kernel.NewUUID(), "Ada", "Lovelace", order.Address{
		Line1:   "12 Marsh St",
		ZipCode: "10115",
		Country: "Germany",
	})
	require.NoError(t, err)

	price, err := kernel.ParseMoney("7.90", "EUR")
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "AB12CD", "Compact Bamboo Notebook", "", price, 2)
	require.NoError(t, err)

	total, err := price.Times(2)
	require.NoError(t, err)

	o, err := order.RestoreOrder(kernel.NewUUID(), customer, []order.Item{item}, total, 2, state, createdAt, createdAt)
	require.NoError(t, err)
	return o
}

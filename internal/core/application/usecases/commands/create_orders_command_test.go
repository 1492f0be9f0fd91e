package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrderInput() commands.OrderInput {
	return commands.OrderInput{
		Currency: "EUR",
		Customer: commands.CustomerInput{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Address1:  "12 Marsh St",
			ZipCode:   "10115",
			Country:   "Germany",
		},
		Items: []commands.ItemInput{
			{SKU: "AB12CD", Title: "Compact Bamboo Notebook", Price: "7.90", Quantity: 2},
			{SKU: "ZX98QW", Title: "Robust Leather Wallet", Price: "24.10", Quantity: 1},
		},
	}
}

func TestNewCreateOrdersCommand(t *testing.T) {
	inputs := []commands.OrderInput{validOrderInput()}

	cmd, err := commands.NewCreateOrdersCommand(inputs)
	inputs[0].Currency = "USD"

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	require.Len(t, cmd.Orders(), 1)
	assert.Equal(t, "EUR", cmd.Orders()[0].Currency)
}

func TestNewCreateOrdersCommand_Empty(t *testing.T) {
	_, err := commands.NewCreateOrdersCommand(nil)

	require.ErrorIs(t, err, commands.ErrNoOrdersToCreate)
}

func TestNewCreateOrdersCommand_TooMany(t *testing.T) {
	inputs := make([]commands.OrderInput, 101)

	_, err := commands.NewCreateOrdersCommand(inputs)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestCreateOrdersCommand_ZeroValue(t *testing.T) {
	var cmd commands.CreateOrdersCommand

	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrdersCommandIsNotConstructed)
}

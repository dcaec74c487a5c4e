package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/i18n"
)

func TestAddItem(t *testing.T) {
	t.Run("matched item uses product name and id", func(t *testing.T) {
		cart, advisory := AddItem(model.NewCart(), testProducts, "arduino uno", 2)

		assert.Nil(t, advisory)
		require.Equal(t, 1, cart.Len())
		item := cart.Items()[0]
		assert.NotEmpty(t, item.LocalID)
		assert.Equal(t, "Arduino Uno", item.DisplayName)
		assert.Equal(t, "2", item.Quantity)
		require.NotNil(t, item.Product)
		assert.Equal(t, int64(7), item.Product.ID)
	})

	t.Run("unmatched item is added as free text with an advisory", func(t *testing.T) {
		cart, advisory := AddItem(model.NewCart(), testProducts, " Unlisted Sensor ", 1)

		require.NotNil(t, advisory)
		assert.Equal(t, i18n.AdvisoryKeyFreeText, advisory.Key)
		assert.Equal(t, "Unlisted Sensor", advisory.Item)
		require.Equal(t, 1, cart.Len())
		assert.True(t, cart.Items()[0].IsExtra())
		assert.Equal(t, "Unlisted Sensor", cart.Items()[0].DisplayName)
	})

	t.Run("blank text is a no-op", func(t *testing.T) {
		start := model.NewCart(model.RequestItem{LocalID: "a", Quantity: "1"})

		cart, advisory := AddItem(start, testProducts, "   ", 3)

		assert.Nil(t, advisory)
		assert.Equal(t, start.Items(), cart.Items())
	})

	t.Run("non-positive quantity defaults to one", func(t *testing.T) {
		cart, _ := AddItem(model.NewCart(), testProducts, "Cautín", 0)
		assert.Equal(t, "1", cart.Items()[0].Quantity)
	})

	t.Run("input cart is untouched", func(t *testing.T) {
		start := model.NewCart()
		_, _ = AddItem(start, testProducts, "Cautín", 1)
		assert.True(t, start.IsEmpty())
	})

	t.Run("local ids are unique", func(t *testing.T) {
		cart, _ := AddItem(model.NewCart(), testProducts, "Cautín", 1)
		cart, _ = AddItem(cart, testProducts, "Cautín", 1)
		items := cart.Items()
		assert.NotEqual(t, items[0].LocalID, items[1].LocalID)
	})
}

func TestRemoveItem(t *testing.T) {
	start := model.NewCart(
		model.RequestItem{LocalID: "a", Quantity: "1"},
		model.RequestItem{LocalID: "b", Quantity: "2"},
	)

	assert.Equal(t, 1, RemoveItem(start, "a").Len())
	assert.Equal(t, 2, RemoveItem(start, "missing").Len())
	assert.Equal(t, 2, start.Len())
}

func TestUpdateQuantity(t *testing.T) {
	start := model.NewCart(model.RequestItem{LocalID: "a", Quantity: "1"})

	tests := []struct {
		name    string
		localID string
		raw     string
		want    string
		wantErr error
	}{
		{name: "digits stored raw", localID: "a", raw: "12", want: "12"},
		{name: "empty allowed mid-edit", localID: "a", raw: "", want: ""},
		{name: "leading zeros kept", localID: "a", raw: "007", want: "007"},
		{name: "letters rejected", localID: "a", raw: "3x", want: "1", wantErr: ErrNonNumericQuantity},
		{name: "negative rejected", localID: "a", raw: "-2", want: "1", wantErr: ErrNonNumericQuantity},
		{name: "decimal rejected", localID: "a", raw: "1.5", want: "1", wantErr: ErrNonNumericQuantity},
		{name: "unknown id is a no-op", localID: "zzz", raw: "4", want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := UpdateQuantity(start, tt.localID, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			item, ok := cart.Find("a")
			require.True(t, ok)
			assert.Equal(t, tt.want, item.Quantity)
		})
	}
}

package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/i18n"
)

// ErrNonNumericQuantity is returned when a quantity edit contains anything but digits.
var ErrNonNumericQuantity = errors.New("quantity must contain only digits")

// Advisory is a non-blocking notice produced while editing the cart.
type Advisory struct {
	Key  string
	Item string
}

// AddItem matches text against the catalog and appends a new line. Blank text
// is a no-op. Unmatched text is still added, as a free-text item, together
// with an advisory.
func AddItem(cart model.Cart, products []model.Product, text string, quantity int) (model.Cart, *Advisory) {
	text = strings.TrimSpace(text)
	if text == "" {
		return cart, nil
	}
	if quantity < 1 {
		quantity = 1
	}

	item := model.RequestItem{
		LocalID:     uuid.NewString(),
		DisplayName: text,
		Quantity:    strconv.Itoa(quantity),
	}

	product, ok := MatchExact(products, text)
	if !ok {
		return cart.With(item), &Advisory{Key: i18n.AdvisoryKeyFreeText, Item: text}
	}
	item.Product = product
	item.DisplayName = product.Name
	return cart.With(item), nil
}

// RemoveItem drops the line with localID; unknown ids leave the cart as is.
func RemoveItem(cart model.Cart, localID string) model.Cart {
	return cart.Without(localID)
}

// UpdateQuantity stores raw as the quantity of the line with localID. Only
// digits are accepted; the empty string is allowed while the user edits.
// Unknown ids leave the cart as is.
func UpdateQuantity(cart model.Cart, localID, raw string) (model.Cart, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" && !model.IsDigits(raw) {
		return cart, ErrNonNumericQuantity
	}
	item, ok := cart.Find(localID)
	if !ok {
		return cart, nil
	}
	item.Quantity = raw
	return cart.Replace(item), nil
}

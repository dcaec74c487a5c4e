package model

import "encoding/json"

// Cart is the working list of requested items. It is a value: every mutation
// returns a new Cart and leaves the receiver untouched.
type Cart struct {
	items []RequestItem
}

// NewCart builds a cart from items, copying the slice.
func NewCart(items ...RequestItem) Cart {
	return Cart{items: append([]RequestItem(nil), items...)}
}

// Items returns a copy of the cart lines in insertion order.
func (c Cart) Items() []RequestItem {
	return append([]RequestItem(nil), c.items...)
}

// Len returns the number of lines.
func (c Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Find returns the line with the given local id.
func (c Cart) Find(localID string) (RequestItem, bool) {
	for _, it := range c.items {
		if it.LocalID == localID {
			return it, true
		}
	}
	return RequestItem{}, false
}

// With returns a cart with item appended.
func (c Cart) With(item RequestItem) Cart {
	items := make([]RequestItem, 0, len(c.items)+1)
	items = append(items, c.items...)
	return Cart{items: append(items, item)}
}

// Without returns a cart lacking the line with localID. Unknown ids return an equal cart.
func (c Cart) Without(localID string) Cart {
	items := make([]RequestItem, 0, len(c.items))
	for _, it := range c.items {
		if it.LocalID != localID {
			items = append(items, it)
		}
	}
	return Cart{items: items}
}

// Replace returns a cart where the line sharing item's local id is swapped for item.
func (c Cart) Replace(item RequestItem) Cart {
	items := c.Items()
	for i := range items {
		if items[i].LocalID == item.LocalID {
			items[i] = item
		}
	}
	return Cart{items: items}
}

// MarshalJSON encodes the cart as a JSON array of lines.
func (c Cart) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON decodes a JSON array of lines.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []RequestItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	c.items = items
	return nil
}

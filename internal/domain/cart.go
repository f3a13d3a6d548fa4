package domain

import (
	"errors"
	"math"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// LineItem is one product entry in a cart
type LineItem struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
}

// Subtotal is price times quantity.
func (l LineItem) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart is an ordered list of line items, at most one per product.
// Every method returns the next cart state and leaves the receiver untouched.
type Cart struct {
	Items []LineItem
}

// Add appends item, or merges its quantity into an existing line for the same
// product. A merged quantity saturates at math.MaxInt.
func (c Cart) Add(item LineItem) Cart {
	if item.Quantity < 1 {
		return c
	}
	items := c.clone()
	for i := range items {
		if items[i].ProductID == item.ProductID {
			if items[i].Quantity > math.MaxInt-item.Quantity {
				items[i].Quantity = math.MaxInt
			} else {
				items[i].Quantity += item.Quantity
			}
			return Cart{Items: items}
		}
	}
	return Cart{Items: append(items, item)}
}

// UpdateQuantity sets the quantity of a line. A quantity below one removes it.
func (c Cart) UpdateQuantity(productID string, quantity int) Cart {
	if quantity < 1 {
		return c.Remove(productID)
	}
	items := c.clone()
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
		}
	}
	return Cart{Items: items}
}

// Remove drops the line for productID.
func (c Cart) Remove(productID string) Cart {
	items := make([]LineItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return Cart{Items: items}
}

// Clear empties the cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums the line subtotals.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

func (c Cart) clone() []LineItem {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return items
}

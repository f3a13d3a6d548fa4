package dto

import "github.com/mrops-br/storefront-api/internal/domain"

// MaxLineQuantity bounds the quantity of a single submitted cart line
const MaxLineQuantity = 1000

// CheckoutItemRequest is one cart line sent by the client
type CheckoutItemRequest struct {
	ProductID string `json:"id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1,max=1000"`
}

// CheckoutRequest is the cart submitted for checkout
type CheckoutRequest struct {
	Items []CheckoutItemRequest `json:"items" validate:"dive"`
}

// CheckoutLineResponse is a priced cart line
type CheckoutLineResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// CheckoutResponse is the priced quote for a cart
type CheckoutResponse struct {
	Items    []*CheckoutLineResponse `json:"items"`
	Subtotal float64                 `json:"subtotal"`
	Shipping float64                 `json:"shipping"`
	Total    float64                 `json:"total"`
}

// ToCheckoutResponse prices a cart. Shipping is free.
func ToCheckoutResponse(cart domain.Cart) *CheckoutResponse {
	lines := make([]*CheckoutLineResponse, len(cart.Items))
	for i, item := range cart.Items {
		lines[i] = &CheckoutLineResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.Subtotal(),
		}
	}

	subtotal := cart.Total()
	return &CheckoutResponse{
		Items:    lines,
		Subtotal: subtotal,
		Shipping: 0,
		Total:    subtotal,
	}
}

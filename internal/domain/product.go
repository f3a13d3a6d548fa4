package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidProductName     = errors.New("product name is required")
	ErrInvalidProductCategory = errors.New("product category is required")
	ErrInvalidProductPrice    = errors.New("product price must not be negative")
	ErrInvalidProductStock    = errors.New("product stock must not be negative")
)

// Product represents the product entity
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Image       string
	Category    string
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct creates a new product with validation. The ID is assigned by the
// repository on Create.
func NewProduct(name, description string, price float64, image, category string, stock int) (*Product, error) {
	now := time.Now().UTC()
	product := &Product{
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Image:       image,
		Category:    strings.TrimSpace(category),
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidProductName
	}
	if p.Category == "" {
		return ErrInvalidProductCategory
	}
	if p.Price < 0 {
		return ErrInvalidProductPrice
	}
	if p.Stock < 0 {
		return ErrInvalidProductStock
	}
	return nil
}

// InStock reports whether quantity units can be taken from the product.
func (p *Product) InStock(quantity int) bool {
	return quantity <= p.Stock
}

// IsValidationError reports whether err is one of the product validation errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidProductName) ||
		errors.Is(err, ErrInvalidProductCategory) ||
		errors.Is(err, ErrInvalidProductPrice) ||
		errors.Is(err, ErrInvalidProductStock)
}

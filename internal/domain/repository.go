package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email is already registered")

	// ErrStoreUnavailable wraps every failure to reach the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ProductRepository defines the contract for product storage
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error

	// Find returns the products matching filter in catalog order (see
	// NewestFirst), restricted to window.
	Find(ctx context.Context, filter ProductFilter, window PageWindow) ([]*Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	// CountByCategory groups the whole catalog by category.
	CountByCategory(ctx context.Context) ([]CategoryFacet, error)
}

// UserRepository defines the contract for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	// FindAll returns every user, newest first.
	FindAll(ctx context.Context) ([]*User, error)
}

// ContactRepository defines the contract for contact message storage
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	// FindAll returns every message, newest first.
	FindAll(ctx context.Context) ([]*Contact, error)
}

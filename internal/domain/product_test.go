package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct("  Red Shoe ", "Leather", 49.9, "/img/shoe.png", " shoes ", 3)
	require.NoError(t, err)
	assert.Equal(t, "Red Shoe", p.Name)
	assert.Equal(t, "shoes", p.Category)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Empty(t, p.ID)
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Product
		want error
	}{
		{"valid", Product{Name: "x", Category: "c"}, nil},
		{"missing name", Product{Category: "c"}, ErrInvalidProductName},
		{"missing category", Product{Name: "x"}, ErrInvalidProductCategory},
		{"negative price", Product{Name: "x", Category: "c", Price: -1}, ErrInvalidProductPrice},
		{"negative stock", Product{Name: "x", Category: "c", Stock: -1}, ErrInvalidProductStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			assert.ErrorIs(t, err, tt.want)
			if tt.want != nil {
				assert.True(t, IsValidationError(err))
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

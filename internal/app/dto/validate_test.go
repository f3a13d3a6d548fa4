package dto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContactRequest(t *testing.T) {
	err := Validate(&ContactRequest{Name: "Ann", Email: "not-an-email", Subject: "Hi"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be a valid email", verr.Fields["email"])
	assert.Equal(t, "is required", verr.Fields["message"])
	assert.Equal(t, "invalid request: email must be a valid email, message is required", err.Error())
}

func TestValidateUpdateProductRequest(t *testing.T) {
	negative := -1.0
	empty := ""
	err := Validate(&UpdateProductRequest{Price: &negative})
	require.Error(t, err)

	require.NoError(t, Validate(&UpdateProductRequest{}))
	require.NoError(t, Validate(&UpdateProductRequest{Image: &empty}))
}

func TestValidateCheckoutRequestDivesIntoItems(t *testing.T) {
	err := Validate(&CheckoutRequest{Items: []CheckoutItemRequest{{ProductID: "p1", Quantity: 0}}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "quantity")
}

func TestValidatePasswordByteLength(t *testing.T) {
	ascii := strings.Repeat("a", 72)
	multibyte := strings.Repeat("é", 72)

	require.NoError(t, Validate(&RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: ascii}))

	err := Validate(&RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: multibyte})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be at most 72 bytes", verr.Fields["password"])

	err = Validate(&UpdateProfileRequest{Name: "Ann", Email: "ann@example.com", NewPassword: multibyte})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "newPassword")
}

func TestValidateCheckoutQuantityCap(t *testing.T) {
	err := Validate(&CheckoutRequest{Items: []CheckoutItemRequest{{ProductID: "p1", Quantity: MaxLineQuantity + 1}}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be at most 1000", verr.Fields["quantity"])

	require.NoError(t, Validate(&CheckoutRequest{Items: []CheckoutItemRequest{{ProductID: "p1", Quantity: MaxLineQuantity}}}))
}

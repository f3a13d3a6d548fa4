package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartReducer(t *testing.T) {
	var cart Cart
	assert.True(t, cart.IsEmpty())

	cart = cart.Add(LineItem{ProductID: "p1", Price: 10, Quantity: 1})
	cart = cart.Add(LineItem{ProductID: "p2", Price: 2.5, Quantity: 2})
	cart = cart.Add(LineItem{ProductID: "p1", Price: 10, Quantity: 2})

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 35.0, cart.Total(), 1e-9)

	cart = cart.UpdateQuantity("p2", 4)
	assert.Equal(t, 4, cart.Items[1].Quantity)

	cart = cart.UpdateQuantity("p2", 0)
	assert.Len(t, cart.Items, 1)

	cart = cart.Remove("p1")
	assert.True(t, cart.IsEmpty())
}

func TestCartAddIgnoresNonPositiveQuantity(t *testing.T) {
	cart := Cart{}.Add(LineItem{ProductID: "p1", Quantity: 0})
	assert.True(t, cart.IsEmpty())
}

func TestCartIsImmutable(t *testing.T) {
	base := Cart{}.Add(LineItem{ProductID: "p1", Price: 1, Quantity: 1})
	next := base.Add(LineItem{ProductID: "p1", Price: 1, Quantity: 1})

	assert.Equal(t, 1, base.Items[0].Quantity)
	assert.Equal(t, 2, next.Items[0].Quantity)
	assert.True(t, next.Clear().IsEmpty())
	assert.False(t, next.IsEmpty())
}

func TestCartAddSaturatesMergedQuantity(t *testing.T) {
	cart := Cart{}.
		Add(LineItem{ProductID: "p1", Quantity: math.MaxInt}).
		Add(LineItem{ProductID: "p1", Quantity: 11})

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, math.MaxInt, cart.Items[0].Quantity)
	assert.False(t, (&Product{Stock: 5}).InStock(cart.Items[0].Quantity))
}

package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(productID uint, qty int, price string) CartItem {
	return CartItem{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func TestCartTotal(t *testing.T) {
	cart := &Cart{Items: []CartItem{item(1, 2, "19.99"), item(2, 1, "5.01")}}

	assert.Equal(t, "44.99", cart.Total().StringFixed(2))
	assert.Equal(t, 3, cart.ItemCount())
	assert.False(t, cart.IsEmpty())
}

func TestEmptyCart(t *testing.T) {
	cart := &Cart{}

	assert.True(t, cart.Total().IsZero())
	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.IsEmpty())
}

func TestPutAndDropItem(t *testing.T) {
	cart := &Cart{}
	cart.PutItem(item(7, 1, "3.00"))
	cart.PutItem(item(7, 4, "3.00"))
	cart.PutItem(item(8, 1, "1.50"))

	line, ok := cart.Item(7)
	assert.True(t, ok)
	assert.Equal(t, 4, line.Quantity)
	assert.Len(t, cart.Items, 2)

	cart.DropItem(7)
	_, ok = cart.Item(7)
	assert.False(t, ok)
	assert.Equal(t, "1.50", cart.Total().StringFixed(2))
}

func TestOrderIsComplete(t *testing.T) {
	assert.False(t, Order{Status: OrderIncomplete}.IsComplete())
	assert.True(t, Order{Status: OrderComplete}.IsComplete())
}

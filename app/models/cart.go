package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a customer's shopping cart. Each customer has at most one.
type Cart struct {
	ID         uint      `gorm:"primaryKey"             json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex"   json:"customerId"`
	OrderID    *uint     `gorm:"index"                  json:"orderId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Customer *Customer  `gorm:"constraint:OnDelete:CASCADE"  json:"-"`
	Order    *Order     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Items    []CartItem `gorm:"foreignKey:ShoppingCartID"    json:"items"`
}

func (Cart) TableName() string { return "shopping_cart" }

// CartItem is one line of a cart. UnitPrice is the product price captured when
// the line was first added. Title, URL, Description and ProductPrice are
// filled from the product table on reads and never written.
type CartItem struct {
	ID             uint            `gorm:"primaryKey"                                      json:"id"`
	ShoppingCartID uint            `gorm:"not null;uniqueIndex:idx_cart_product"           json:"shoppingCartId"`
	ProductID      uint            `gorm:"not null;uniqueIndex:idx_cart_product"           json:"productId"`
	Quantity       int             `gorm:"not null"                                        json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"                     json:"unitPrice"`
	AddedAt        time.Time       `gorm:"autoCreateTime"                                  json:"addedAt"`

	Title        string          `gorm:"->;-:migration" json:"title,omitempty"`
	URL          string          `gorm:"->;-:migration" json:"url,omitempty"`
	Description  string          `gorm:"->;-:migration" json:"description,omitempty"`
	ProductPrice decimal.Decimal `gorm:"->;-:migration" json:"productPrice"`

	Cart    *Cart    `gorm:"foreignKey:ShoppingCartID;constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"constraint:OnDelete:CASCADE"                           json:"-"`
}

func (CartItem) TableName() string { return "shopping_cart_item" }

// LineTotal is quantity × unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums quantity × unit price over items.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Total is the cart's current value.
func (c *Cart) Total() decimal.Decimal { return CartTotal(c.Items) }

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Item returns the line for productID, if any.
func (c *Cart) Item(productID uint) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// PutItem replaces the line for item.ProductID or appends it.
func (c *Cart) PutItem(item CartItem) {
	if existing, ok := c.Item(item.ProductID); ok {
		*existing = item
		return
	}
	c.Items = append(c.Items, item)
}

// DropItem removes the line for productID from the in-memory list.
func (c *Cart) DropItem(productID uint) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

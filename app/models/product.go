package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry. Deleting its category leaves it uncategorised.
type Product struct {
	ID          uint            `gorm:"primaryKey"                     json:"id"`
	Title       string          `gorm:"size:255;not null;index"        json:"title"`
	Description string          `gorm:"type:text"                      json:"description"`
	URL         string          `gorm:"size:1024"                      json:"url"`
	Date        time.Time       `gorm:"autoCreateTime"                 json:"date"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"    json:"price"`
	Inventory   int             `gorm:"not null;default:0"             json:"inventory"`
	CategoryID  *uint           `gorm:"index"                          json:"categoryId"`

	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (Product) TableName() string { return "product" }

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool { return p.Inventory > 0 }

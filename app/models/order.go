package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus moves one way: incomplete → complete.
type OrderStatus string

const (
	OrderIncomplete OrderStatus = "incomplete"
	OrderComplete   OrderStatus = "complete"
)

// Order is removed with its customer. An address an order ships to cannot be
// deleted on its own.
type Order struct {
	ID          uint            `gorm:"primaryKey"                                json:"id"`
	OrderDate   time.Time       `gorm:"not null"                                  json:"orderDate"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"               json:"totalPrice"`
	Status      OrderStatus     `gorm:"size:20;not null;default:'incomplete'"     json:"status"`
	CompletedAt *time.Time      `json:"completedAt"`
	CustomerID  uint            `gorm:"not null;index"                            json:"customerId"`
	AddressID   uint            `gorm:"not null;index"                            json:"addressId"`

	Customer *Customer `gorm:"constraint:OnDelete:CASCADE"   json:"-"`
	Address  *Address  `gorm:"constraint:OnDelete:NO ACTION" json:"-"`
}

func (Order) TableName() string { return "order" }

// IsComplete reports whether the order reached its final state.
func (o Order) IsComplete() bool { return o.Status == OrderComplete }

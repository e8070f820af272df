package models

import "time"

// Customer is a registered shopper. Password is stored as entered and never
// serialised.
type Customer struct {
	ID          uint      `gorm:"primaryKey"                    json:"id"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName   string    `gorm:"size:100;not null"             json:"firstName"`
	LastName    string    `gorm:"size:100;not null"             json:"lastName"`
	DateOfBirth time.Time `gorm:"not null"                      json:"dateOfBirth"`
	PhoneNumber string    `gorm:"size:50"                       json:"phoneNumber"`
	Password    string    `gorm:"size:255;not null"             json:"-"`
	UserName    string    `gorm:"size:100"                      json:"userName"`
	IsAdmin     bool      `gorm:"not null;default:false"        json:"isAdmin"`
}

func (Customer) TableName() string { return "customer" }

// FullName joins first and last name.
func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

package models

// Address belongs to exactly one customer and is removed with it.
type Address struct {
	ID           uint   `gorm:"primaryKey"          json:"id"`
	StreetNumber int    `gorm:"not null"            json:"streetNumber"`
	CivicNumber  *int   `json:"civicNumber"`
	StreetName   string `gorm:"size:255;not null"   json:"streetName"`
	City         string `gorm:"size:100;not null"   json:"city"`
	Province     string `gorm:"size:100;not null"   json:"province"`
	Country      string `gorm:"size:100;not null"   json:"country"`
	PostalCode   string `gorm:"size:20;not null"    json:"postalCode"`
	CustomerID   uint   `gorm:"not null;index"      json:"customerId"`

	Customer *Customer `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Address) TableName() string { return "address" }

package models

type Category struct {
	ID   uint   `gorm:"primaryKey"                    json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

func (Category) TableName() string { return "category" }

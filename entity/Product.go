package entity

import (
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	// Price in cents
	Price    int64  `gorm:"not null" json:"price"`
	ImageURL string `json:"imageUrl"`

	CategoryID uint     `json:"categoryId"`
	Category   Category `json:"-"`
}

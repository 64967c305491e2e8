package entity

import (
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"displayOrder"`

	Products []Product `json:"-"`
}

package entity

import (
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleDelivery = "delivery"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Role        string `gorm:"not null;default:customer" json:"role"`

	// Relations, preload only when needed
	Orders     []Order `json:"-"`
	Deliveries []Order `gorm:"foreignKey:DriverID" json:"-"`
}

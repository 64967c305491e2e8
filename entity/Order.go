package entity

import (
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	Total       int64 `json:"total"`

	Status Status `gorm:"type:varchar(32);not null;default:pending;index" json:"status"`

	UserID uint `json:"userId"`
	User   User `json:"-"`

	// Set when a delivery user claims the order, nil before that.
	DriverID *uint `json:"driverId,omitempty"`
	Driver   *User `gorm:"foreignKey:DriverID" json:"-"`

	DeliveryAddress string   `json:"deliveryAddress"`
	DeliveryLat     *float64 `json:"deliveryLat,omitempty"`
	DeliveryLng     *float64 `json:"deliveryLng,omitempty"`
	Notes           string   `json:"notes"`

	Items []OrderItem `json:"items,omitempty"`
}

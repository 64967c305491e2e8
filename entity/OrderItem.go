package entity

import (
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	Qty       int   `json:"qty"`
	UnitPrice int64 `json:"unitPrice"`
	Total     int64 `json:"total"`

	OrderID   uint    `json:"orderId"`
	ProductID uint    `json:"productId"`
	Product   Product `json:"-"`
}

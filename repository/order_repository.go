package repository

import (
	"gorm.io/gorm"

	"github.com/fiskryeziu/hotdrop/entity"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Get(id uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetWithItems(id uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Preload("Items").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(userID uint, limit int) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.DB.
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Find(&orders).Error
	return orders, err
}

// ListByStatuses returns orders the delivery dashboard cares about.
func (r *OrderRepository) ListByStatuses(statuses []entity.Status) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.DB.
		Where("status IN ?", statuses).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

// UpdateStatusGuard performs a conditional status update and reports how
// many rows changed; zero means the order moved concurrently.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, id uint, from, to entity.Status) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// AssignDriverGuard claims an order for a driver; the guard loses when
// another driver got there first.
func (r *OrderRepository) AssignDriverGuard(tx *gorm.DB, id, driverID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND driver_id IS NULL AND status = ?", id, entity.StatusReady).
		Update("driver_id", driverID)
	return res.RowsAffected, res.Error
}

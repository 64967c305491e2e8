package repository

import (
	"gorm.io/gorm"

	"github.com/fiskryeziu/hotdrop/entity"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) List() ([]entity.Product, error) {
	var products []entity.Product
	err := r.DB.Order("id ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) Get(id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ListByCategory(categoryID uint) ([]entity.Product, error) {
	var products []entity.Product
	err := r.DB.Where("category_id = ?", categoryID).Order("id ASC").Find(&products).Error
	return products, err
}

// GetBasics loads only what order pricing needs.
func (r *ProductRepository) GetBasics(id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.DB.Select("id, price").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

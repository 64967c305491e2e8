package configs

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fiskryeziu/hotdrop/entity"
)

func ConnectDB(source string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(source), &gorm.Config{})
}

// SetupDatabase migrates the schema.
func SetupDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{}, &entity.Product{},
		&entity.Order{}, &entity.OrderItem{},
	)
}

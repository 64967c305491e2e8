package configs

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fiskryeziu/hotdrop/entity"
)

// SeedAdmin creates the first admin account from env, once.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      entity.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// SeedCatalog inserts the starter menu.
func SeedCatalog(db *gorm.DB) error {
	categories := []entity.Category{
		{Name: "Pizza", Description: "Delicious pizzas with fresh ingredients.", DisplayOrder: 1},
		{Name: "Burgers", Description: "Juicy burgers with various toppings.", DisplayOrder: 2},
		{Name: "Salads", Description: "Fresh and healthy salads.", DisplayOrder: 3},
		{Name: "Drinks", Description: "Cold and hot beverages.", DisplayOrder: 4},
		{Name: "Desserts", Description: "Sweet treats to finish your meal.", DisplayOrder: 5},
	}
	for i := range categories {
		if err := db.FirstOrCreate(&categories[i], entity.Category{Name: categories[i].Name}).Error; err != nil {
			return err
		}
	}

	products := []entity.Product{
		{Name: "Margherita", Description: "Tomato, mozzarella, basil.", Price: 799, CategoryID: categories[0].ID},
		{Name: "Pepperoni", Description: "Pepperoni, mozzarella, tomato sauce.", Price: 899, CategoryID: categories[0].ID},
		{Name: "Classic Cheeseburger", Description: "Beef patty, cheddar, pickles.", Price: 699, CategoryID: categories[1].ID},
		{Name: "Caesar Salad", Description: "Crisp romaine lettuce, parmesan, croutons, and Caesar dressing.", Price: 599, CategoryID: categories[2].ID},
		{Name: "Lemonade", Description: "Freshly squeezed.", Price: 249, CategoryID: categories[3].ID},
		{Name: "Tiramisu", Description: "Espresso-soaked ladyfingers, mascarpone.", Price: 449, CategoryID: categories[4].ID},
	}
	for i := range products {
		if err := db.FirstOrCreate(&products[i], entity.Product{Name: products[i].Name}).Error; err != nil {
			return err
		}
	}
	return nil
}

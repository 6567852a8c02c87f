package migrations

import (
	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductOption{},
		&models.ProductVariation{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.ProductAction{},
		&models.Sale{},
		&models.DiscountCode{},
	)
}

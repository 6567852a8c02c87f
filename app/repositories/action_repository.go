package repositories

import (
	"context"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ActionColumnCart     = "total_cart"
	ActionColumnPurchase = "total_purchase"
)

type ActionRepository interface {
	Increment(ctx context.Context, productID string, bucket int64, column string) error
	GetForProduct(ctx context.Context, productID string) ([]models.ProductAction, error)
}

type gormActionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) ActionRepository {
	return &gormActionRepository{db: db}
}

// Increment adds one to column of the (productID, bucket) counter row,
// creating the row when it does not exist yet.
func (r *gormActionRepository) Increment(ctx context.Context, productID string, bucket int64, column string) error {
	action := models.ProductAction{ProductID: productID, Timestamp: bucket}
	switch column {
	case ActionColumnCart:
		action.TotalCart = 1
	case ActionColumnPurchase:
		action.TotalPurchase = 1
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "timestamp"}},
			DoUpdates: clause.Set{{Column: clause.Column{Name: column}, Value: gorm.Expr(column+" + ?", 1)}},
		}).
		Create(&action).Error
}

func (r *gormActionRepository) GetForProduct(ctx context.Context, productID string) ([]models.ProductAction, error) {
	var actions []models.ProductAction
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("timestamp ASC").
		Find(&actions).Error
	return actions, err
}

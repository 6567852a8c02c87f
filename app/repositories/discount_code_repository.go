package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
)

type DiscountCodeRepository interface {
	Create(ctx context.Context, code *models.DiscountCode) error
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.DiscountCode, error)
	GetAll(ctx context.Context) ([]models.DiscountCode, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

type gormDiscountCodeRepository struct {
	db *gorm.DB
}

func NewDiscountCodeRepository(db *gorm.DB) DiscountCodeRepository {
	return &gormDiscountCodeRepository{db: db}
}

// Create inserts the code together with its product and category scope.
func (r *gormDiscountCodeRepository) Create(ctx context.Context, code *models.DiscountCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, categories := code.Products, code.Categories
		code.Products, code.Categories = nil, nil
		if err := tx.Create(code).Error; err != nil {
			return err
		}
		if len(products) > 0 {
			if err := tx.Model(code).Association("Products").Append(products); err != nil {
				return err
			}
		}
		if len(categories) > 0 {
			if err := tx.Model(code).Association("Categories").Append(categories); err != nil {
				return err
			}
		}
		code.Products, code.Categories = products, categories
		return nil
	})
}

func (r *gormDiscountCodeRepository) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.DiscountCode, error) {
	var dc models.DiscountCode
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Products").
		Preload("Categories").
		First(&dc, "code = ?", models.NormalizeDiscountCode(code)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dc, nil
}

func (r *gormDiscountCodeRepository) GetAll(ctx context.Context) ([]models.DiscountCode, error) {
	var codes []models.DiscountCode
	err := r.db.WithContext(ctx).Order("code ASC").Find(&codes).Error
	return codes, err
}

func (r *gormDiscountCodeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiscountCode{}).
		Where("code = ?", models.NormalizeDiscountCode(code)).
		Count(&count).Error
	return count > 0, err
}

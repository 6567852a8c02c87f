package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, image *models.ProductImage) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ProductImage, error)
	FirstForProduct(ctx context.Context, tx *gorm.DB, productID string) (*models.ProductImage, error)
	CountForProduct(ctx context.Context, tx *gorm.DB, productID string) (int64, error)
}

type gormImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &gormImageRepository{db: db}
}

func (r *gormImageRepository) Create(ctx context.Context, tx *gorm.DB, image *models.ProductImage) error {
	return conn(r.db, tx).WithContext(ctx).Create(image).Error
}

func (r *gormImageRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ProductImage, error) {
	var image models.ProductImage
	err := conn(r.db, tx).WithContext(ctx).Where("id = ?", id).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *gormImageRepository) FirstForProduct(ctx context.Context, tx *gorm.DB, productID string) (*models.ProductImage, error) {
	var image models.ProductImage
	err := conn(r.db, tx).WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").
		First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *gormImageRepository) CountForProduct(ctx context.Context, tx *gorm.DB, productID string) (int64, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

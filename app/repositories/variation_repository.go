package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
)

type VariationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, variation *models.ProductVariation) error
	Update(ctx context.Context, tx *gorm.DB, variation *models.ProductVariation) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ProductVariation, error)
	GetBySku(ctx context.Context, tx *gorm.DB, sku string) (*models.ProductVariation, error)
	ListByProduct(ctx context.Context, tx *gorm.DB, productID string) ([]models.ProductVariation, error)
	ListByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) ([]models.ProductVariation, error)
	SkuExists(ctx context.Context, tx *gorm.DB, sku, exceptID string) (bool, error)
	DefaultExists(ctx context.Context, tx *gorm.DB, productID, exceptID string) (bool, error)
	ClearDefault(ctx context.Context, tx *gorm.DB, productID string) error
	DecrementStock(ctx context.Context, tx *gorm.DB, id string, quantity int) (bool, error)
	AssignImageWhereMissing(ctx context.Context, tx *gorm.DB, productID, imageID string) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
}

type gormVariationRepository struct {
	db *gorm.DB
}

func NewVariationRepository(db *gorm.DB) VariationRepository {
	return &gormVariationRepository{db: db}
}

// Create inserts the variation after checking the SKU and default flag
// against existing rows.
func (r *gormVariationRepository) Create(ctx context.Context, tx *gorm.DB, variation *models.ProductVariation) error {
	if err := r.checkIntegrity(ctx, tx, variation); err != nil {
		return err
	}
	err := conn(r.db, tx).WithContext(ctx).Omit("Product", "Image").Create(variation).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSku
	}
	return err
}

func (r *gormVariationRepository) Update(ctx context.Context, tx *gorm.DB, variation *models.ProductVariation) error {
	if err := r.checkIntegrity(ctx, tx, variation); err != nil {
		return err
	}
	err := conn(r.db, tx).WithContext(ctx).Omit("Product", "Image").Save(variation).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSku
	}
	return err
}

func (r *gormVariationRepository) checkIntegrity(ctx context.Context, tx *gorm.DB, variation *models.ProductVariation) error {
	if variation.Sku != "" {
		exists, err := r.SkuExists(ctx, tx, variation.Sku, variation.ID)
		if err != nil {
			return fmt.Errorf("check sku: %w", err)
		}
		if exists {
			return ErrDuplicateSku
		}
	}
	if variation.Default {
		exists, err := r.DefaultExists(ctx, tx, variation.ProductID, variation.ID)
		if err != nil {
			return fmt.Errorf("check default: %w", err)
		}
		if exists {
			return ErrDuplicateDefault
		}
	}
	return nil
}

func (r *gormVariationRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ProductVariation, error) {
	return r.first(ctx, tx, "id = ?", id)
}

func (r *gormVariationRepository) GetBySku(ctx context.Context, tx *gorm.DB, sku string) (*models.ProductVariation, error) {
	return r.first(ctx, tx, "sku = ?", sku)
}

func (r *gormVariationRepository) first(ctx context.Context, tx *gorm.DB, query string, arg any) (*models.ProductVariation, error) {
	var variation models.ProductVariation
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Product").
		Preload("Image").
		Where(query, arg).
		First(&variation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variation, nil
}

func (r *gormVariationRepository) ListByProduct(ctx context.Context, tx *gorm.DB, productID string) ([]models.ProductVariation, error) {
	var variations []models.ProductVariation
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Image").
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&variations).Error
	return variations, err
}

func (r *gormVariationRepository) ListByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) ([]models.ProductVariation, error) {
	var variations []models.ProductVariation
	if len(productIDs) == 0 {
		return variations, nil
	}
	err := conn(r.db, tx).WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&variations).Error
	return variations, err
}

func (r *gormVariationRepository) SkuExists(ctx context.Context, tx *gorm.DB, sku, exceptID string) (bool, error) {
	var count int64
	q := conn(r.db, tx).WithContext(ctx).Model(&models.ProductVariation{}).Where("sku = ?", sku)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormVariationRepository) DefaultExists(ctx context.Context, tx *gorm.DB, productID, exceptID string) (bool, error) {
	var count int64
	q := conn(r.db, tx).WithContext(ctx).Model(&models.ProductVariation{}).
		Where(map[string]any{"product_id": productID, "default": true})
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormVariationRepository) ClearDefault(ctx context.Context, tx *gorm.DB, productID string) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.ProductVariation{}).
		Where("product_id = ?", productID).
		UpdateColumn("default", false).Error
}

// DecrementStock subtracts quantity from a tracked stock level only when
// enough is left. It reports false when no row was changed.
func (r *gormVariationRepository) DecrementStock(ctx context.Context, tx *gorm.DB, id string, quantity int) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&models.ProductVariation{}).
		Where("id = ? AND num_in_stock IS NOT NULL AND num_in_stock >= ?", id, quantity).
		UpdateColumn("num_in_stock", gorm.Expr("num_in_stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormVariationRepository) AssignImageWhereMissing(ctx context.Context, tx *gorm.DB, productID, imageID string) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.ProductVariation{}).
		Where("product_id = ? AND image_id IS NULL", productID).
		UpdateColumn("image_id", imageID).Error
}

func (r *gormVariationRepository) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).Delete(&models.ProductVariation{}, "id IN ?", ids).Error
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
)

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, tx *gorm.DB, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CountSiblings(ctx context.Context, tx *gorm.DB, parentID *string) (int, error)
	ChildIDs(ctx context.Context, tx *gorm.DB, parentIDs []string) ([]string, error)
	ShiftSiblings(ctx context.Context, tx *gorm.DB, parentID *string, fromOrdering int) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	return conn(r.db, tx).WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Preload("Parent").First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB { return db.Order("ordering ASC") }).
		First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := conn(r.db, tx).WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("titles ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) CountSiblings(ctx context.Context, tx *gorm.DB, parentID *string) (int, error) {
	var count int64
	if err := siblingScope(conn(r.db, tx).WithContext(ctx).Model(&models.Category{}), parentID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *categoryRepository) ChildIDs(ctx context.Context, tx *gorm.DB, parentIDs []string) ([]string, error) {
	var ids []string
	if len(parentIDs) == 0 {
		return ids, nil
	}
	err := conn(r.db, tx).WithContext(ctx).Model(&models.Category{}).
		Where("parent_id IN ?", parentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

// ShiftSiblings moves every sibling at or after fromOrdering one slot down.
func (r *categoryRepository) ShiftSiblings(ctx context.Context, tx *gorm.DB, parentID *string, fromOrdering int) error {
	return siblingScope(conn(r.db, tx).WithContext(ctx).Model(&models.Category{}), parentID).
		Where("ordering >= ?", fromOrdering).
		UpdateColumn("ordering", gorm.Expr("ordering - ?", 1)).Error
}

func (r *categoryRepository) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
	db := conn(r.db, tx).WithContext(ctx)
	for _, table := range []string{"product_categories", "sale_categories", "discount_code_categories"} {
		if err := db.Exec("DELETE FROM "+table+" WHERE category_id IN ?", ids).Error; err != nil {
			log.Printf("CategoryRepository.DeleteByIDs: failed to unlink %s: %v", table, err)
			return fmt.Errorf("failed to unlink categories from %s: %w", table, err)
		}
	}
	return db.Delete(&models.Category{}, "id IN ?", ids).Error
}

func siblingScope(db *gorm.DB, parentID *string) *gorm.DB {
	if parentID == nil {
		return db.Where("parent_id IS NULL")
	}
	return db.Where("parent_id = ?", *parentID)
}

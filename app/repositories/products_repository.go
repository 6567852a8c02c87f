package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
)

type ProductRepositoryImpl interface {
	Create(ctx context.Context, tx *gorm.DB, product *models.Product) error
	Update(ctx context.Context, tx *gorm.DB, product *models.Product) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]models.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	IDsInCategories(ctx context.Context, tx *gorm.DB, categoryIDs []string) ([]string, error)
	GetByCategorySlugPaginated(ctx context.Context, slug string, limit, offset int) ([]models.Product, int64, error)
	SearchProductsPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Product, int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) Create(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	return conn(p.db, tx).WithContext(ctx).Create(product).Error
}

// Update saves the product's own columns without touching its associations.
func (p *productRepository) Update(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	return conn(p.db, tx).WithContext(ctx).Omit(gormAssociations...).Save(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	err := preloadProduct(conn(p.db, tx).WithContext(ctx)).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := preloadProduct(p.db.WithContext(ctx)).
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := conn(p.db, tx).WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *productRepository) IDsInCategories(ctx context.Context, tx *gorm.DB, categoryIDs []string) ([]string, error) {
	var ids []string
	if len(categoryIDs) == 0 {
		return ids, nil
	}
	err := conn(p.db, tx).WithContext(ctx).Model(&models.ProductCategory{}).
		Where("category_id IN ?", categoryIDs).
		Distinct().
		Pluck("product_id", &ids).Error
	return ids, err
}

func (p *productRepository) GetByCategorySlugPaginated(ctx context.Context, slug string, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Joins("JOIN product_categories pc ON pc.product_id = products.id").
		Joins("JOIN categories c ON c.id = pc.category_id").
		Where("c.slug = ? AND products.active = ?", slug, true).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = p.db.WithContext(ctx).
		Joins("JOIN product_categories pc ON pc.product_id = products.id").
		Joins("JOIN categories c ON c.id = pc.category_id").
		Where("c.slug = ? AND products.active = ?", slug, true).
		Preload("Images", orderByPosition).
		Order("products.date_added DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) SearchProductsPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64
	searchKeyword := "%" + strings.ToLower(keyword) + "%"
	where := "active = ? AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(keywords) LIKE ?)"

	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where(where, true, searchKeyword, searchKeyword, searchKeyword).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := p.db.WithContext(ctx).
		Preload("Images", orderByPosition).
		Where(where, true, searchKeyword, searchKeyword, searchKeyword).
		Order("date_added DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

var gormAssociations = []string{"Categories", "Images", "Variations"}

func preloadProduct(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Categories").
		Preload("Images", orderByPosition).
		Preload("Variations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Variations.Image")
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

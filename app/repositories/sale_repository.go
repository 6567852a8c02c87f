package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Save(ctx context.Context, tx *gorm.DB, sale *models.Sale) error
	ReplaceScope(ctx context.Context, tx *gorm.DB, sale *models.Sale, products []models.Product, categories []models.Category) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Sale, error)
	GetAll(ctx context.Context) ([]models.Sale, error)
	Delete(ctx context.Context, tx *gorm.DB, sale *models.Sale) error
	ClearOverrides(ctx context.Context, tx *gorm.DB, saleID string) error
	SetProductSalePrice(ctx context.Context, tx *gorm.DB, productID string, override SaleOverride) error
	SetVariationSalePrice(ctx context.Context, tx *gorm.DB, variationID string, override SaleOverride) error
}

// SaleOverride is the set of sale columns a sale writes onto a catalog row.
type SaleOverride struct {
	SaleID string
	Price  decimal.Decimal
	From   *time.Time
	To     *time.Time
}

func (o SaleOverride) columns() map[string]interface{} {
	return map[string]interface{}{
		"sale_id":    o.SaleID,
		"sale_price": o.Price,
		"sale_from":  o.From,
		"sale_to":    o.To,
	}
}

var clearedSaleColumns = map[string]interface{}{
	"sale_id":    nil,
	"sale_price": nil,
	"sale_from":  nil,
	"sale_to":    nil,
}

type gormSaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &gormSaleRepository{db: db}
}

func (r *gormSaleRepository) Save(ctx context.Context, tx *gorm.DB, sale *models.Sale) error {
	return conn(r.db, tx).WithContext(ctx).Omit("Products", "Categories").Save(sale).Error
}

func (r *gormSaleRepository) ReplaceScope(ctx context.Context, tx *gorm.DB, sale *models.Sale, products []models.Product, categories []models.Category) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := replaceAssociation(db.Model(sale).Association("Products"), products); err != nil {
		return err
	}
	if err := replaceAssociation(db.Model(sale).Association("Categories"), categories); err != nil {
		return err
	}
	sale.Products = products
	sale.Categories = categories
	return nil
}

func (r *gormSaleRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Sale, error) {
	var sale models.Sale
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Products").
		Preload("Categories").
		First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *gormSaleRepository) GetAll(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *gormSaleRepository) Delete(ctx context.Context, tx *gorm.DB, sale *models.Sale) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Model(sale).Association("Products").Clear(); err != nil {
		return err
	}
	if err := db.Model(sale).Association("Categories").Clear(); err != nil {
		return err
	}
	return db.Delete(sale).Error
}

// ClearOverrides resets the sale columns of every product and variation
// tagged with saleID.
func (r *gormSaleRepository) ClearOverrides(ctx context.Context, tx *gorm.DB, saleID string) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Model(&models.Product{}).Where("sale_id = ?", saleID).UpdateColumns(clearedSaleColumns).Error; err != nil {
		return err
	}
	return db.Model(&models.ProductVariation{}).Where("sale_id = ?", saleID).UpdateColumns(clearedSaleColumns).Error
}

func (r *gormSaleRepository) SetProductSalePrice(ctx context.Context, tx *gorm.DB, productID string, override SaleOverride) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumns(override.columns()).Error
}

func (r *gormSaleRepository) SetVariationSalePrice(ctx context.Context, tx *gorm.DB, variationID string, override SaleOverride) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.ProductVariation{}).
		Where("id = ?", variationID).
		UpdateColumns(override.columns()).Error
}

func replaceAssociation[T any](assoc *gorm.Association, values []T) error {
	if len(values) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

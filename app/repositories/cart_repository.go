package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, cartID string) (*models.Cart, error)
	GetCartWithItems(ctx context.Context, tx *gorm.DB, cartID string) (*models.Cart, error)
	FindItemBySku(ctx context.Context, cartID, sku string) (*models.CartItem, error)
	GetItem(ctx context.Context, cartID, itemID string) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID string) (bool, error)
	Touch(ctx context.Context, cartID string) error
	Delete(ctx context.Context, tx *gorm.DB, cartID string) error
	SumQuantityBySku(ctx context.Context, sku string) (int, error)
	DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db}
}

func (r *cartRepository) GetOrCreate(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	if cartID == "" {
		if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Items", orderByCreated).
		FirstOrCreate(&cart, models.Cart{ID: cartID}).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetCartWithItems(ctx context.Context, tx *gorm.DB, cartID string) (*models.Cart, error) {
	var cart models.Cart
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Items", orderByCreated).
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindItemBySku(ctx context.Context, cartID, sku string) (*models.CartItem, error) {
	return r.firstItem(ctx, "cart_id = ? AND sku = ?", cartID, sku)
}

func (r *cartRepository) GetItem(ctx context.Context, cartID, itemID string) (*models.CartItem, error) {
	return r.firstItem(ctx, "cart_id = ? AND id = ?", cartID, itemID)
}

func (r *cartRepository) firstItem(ctx context.Context, query string, args ...any) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Where(query, args...).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// SaveItem creates or updates the line item. TotalPrice is recomputed by the
// model's save hook.
func (r *cartRepository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&models.CartItem{})
	return result.RowsAffected > 0, result.Error
}

func (r *cartRepository) Touch(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("last_updated", time.Now()).Error
}

func (r *cartRepository) Delete(ctx context.Context, tx *gorm.DB, cartID string) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", cartID).Delete(&models.Cart{}).Error
}

// SumQuantityBySku is the quantity of sku held across every cart.
func (r *cartRepository) SumQuantityBySku(ctx context.Context, sku string) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("sku = ?", sku).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *cartRepository) DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Cart{}).Where("last_updated < ?", before).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("cart_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.Cart{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

func orderByCreated(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

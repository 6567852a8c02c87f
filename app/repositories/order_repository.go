package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	BulkCreateItems(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status int) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return conn(r.db, tx).WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *gormOrderRepository) BulkCreateItems(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).Create(&items).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order

	err := r.db.WithContext(ctx).
		Preload("Items", orderByCreated).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Order("time DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatus writes only the status column so totals are left as created.
func (r *gormOrderRepository) UpdateStatus(ctx context.Context, orderID string, status int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumns(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

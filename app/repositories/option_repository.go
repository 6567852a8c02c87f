package repositories

import (
	"context"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OptionRepository interface {
	Add(ctx context.Context, option *models.ProductOption) error
	ListByType(ctx context.Context, optionType string) ([]models.ProductOption, error)
	ListAll(ctx context.Context) ([]models.ProductOption, error)
}

type gormOptionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &gormOptionRepository{db: db}
}

// Add inserts the option value, ignoring a value that already exists for the type.
func (r *gormOptionRepository) Add(ctx context.Context, option *models.ProductOption) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(option).Error
}

func (r *gormOptionRepository) ListByType(ctx context.Context, optionType string) ([]models.ProductOption, error) {
	var options []models.ProductOption
	err := r.db.WithContext(ctx).
		Where("type = ?", optionType).
		Order("name ASC").
		Find(&options).Error
	return options, err
}

func (r *gormOptionRepository) ListAll(ctx context.Context) ([]models.ProductOption, error) {
	var options []models.ProductOption
	err := r.db.WithContext(ctx).Order("type ASC, name ASC").Find(&options).Error
	return options, err
}

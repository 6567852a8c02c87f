package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"gorm.io/gorm"
)

// SaleService writes sale prices onto the catalog and takes them off again.
type SaleService struct {
	db            *gorm.DB
	saleRepo      repositories.SaleRepository
	productRepo   repositories.ProductRepositoryImpl
	categoryRepo  repositories.CategoryRepositoryImpl
	variationRepo repositories.VariationRepository
}

func NewSaleService(
	db *gorm.DB,
	saleRepo repositories.SaleRepository,
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	variationRepo repositories.VariationRepository,
) *SaleService {
	return &SaleService{
		db:            db,
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		variationRepo: variationRepo,
	}
}

// Save persists the sale with its scope and rewrites the sale prices it owns.
// Prices written by an earlier save are always cleared first, so an inactive
// sale leaves no price behind.
func (s *SaleService) Save(ctx context.Context, sale *models.Sale, productIDs, categoryIDs []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := s.productRepo.GetByIDs(ctx, tx, productIDs)
		if err != nil {
			return fmt.Errorf("failed to get products: %w", err)
		}
		if len(products) != len(uniqueStrings(productIDs)) {
			return ErrProductNotFound
		}
		categories, err := s.categoryRepo.GetByIDs(ctx, tx, categoryIDs)
		if err != nil {
			return fmt.Errorf("failed to get categories: %w", err)
		}
		if len(categories) != len(uniqueStrings(categoryIDs)) {
			return ErrCategoryNotFound
		}

		sale.Products, sale.Categories = nil, nil
		if err := s.saleRepo.Save(ctx, tx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		if err := s.saleRepo.ReplaceScope(ctx, tx, sale, products, categories); err != nil {
			return fmt.Errorf("failed to save sale scope: %w", err)
		}
		if err := s.saleRepo.ClearOverrides(ctx, tx, sale.ID); err != nil {
			return fmt.Errorf("failed to clear sale prices: %w", err)
		}
		if !sale.Active || sale.Reduction().IsZero() {
			return nil
		}
		return s.apply(ctx, tx, sale, productIDs, categoryIDs)
	})
	if err != nil {
		log.Printf("SaleService.Save: sale %q: %v", sale.Title, err)
		return err
	}
	return nil
}

func (s *SaleService) apply(ctx context.Context, tx *gorm.DB, sale *models.Sale, productIDs, categoryIDs []string) error {
	inCategories, err := s.productRepo.IDsInCategories(ctx, tx, categoryIDs)
	if err != nil {
		return fmt.Errorf("failed to get category products: %w", err)
	}
	ids := uniqueStrings(append(append([]string{}, productIDs...), inCategories...))

	products, err := s.productRepo.GetByIDs(ctx, tx, ids)
	if err != nil {
		return err
	}
	variations, err := s.variationRepo.ListByProductIDs(ctx, tx, ids)
	if err != nil {
		return err
	}

	reduction := sale.Reduction()
	override := func(p models.Priced) (repositories.SaleOverride, bool) {
		if !p.UnitPrice.Valid {
			return repositories.SaleOverride{}, false
		}
		price, ok := reduction.Apply(p.UnitPrice.Decimal)
		if !ok {
			return repositories.SaleOverride{}, false
		}
		return repositories.SaleOverride{SaleID: sale.ID, Price: price, From: sale.ValidFrom, To: sale.ValidTo}, true
	}

	for _, p := range products {
		if o, ok := override(p.Priced); ok {
			if err := s.saleRepo.SetProductSalePrice(ctx, tx, p.ID, o); err != nil {
				return fmt.Errorf("failed to set sale price on product %s: %w", p.ID, err)
			}
		}
	}
	for _, v := range variations {
		if o, ok := override(v.Priced); ok {
			if err := s.saleRepo.SetVariationSalePrice(ctx, tx, v.ID, o); err != nil {
				return fmt.Errorf("failed to set sale price on variation %s: %w", v.Sku, err)
			}
		}
	}
	return nil
}

// Delete removes the sale and every sale price it wrote.
func (s *SaleService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return ErrSaleNotFound
		}
		if err := s.saleRepo.ClearOverrides(ctx, tx, sale.ID); err != nil {
			return fmt.Errorf("failed to clear sale prices: %w", err)
		}
		return s.saleRepo.Delete(ctx, tx, sale)
	})
}

func (s *SaleService) Get(ctx context.Context, id string) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

func (s *SaleService) List(ctx context.Context) ([]models.Sale, error) {
	return s.saleRepo.GetAll(ctx)
}

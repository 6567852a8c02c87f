package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"gorm.io/gorm"
)

type DiscountService struct {
	codeRepo      repositories.DiscountCodeRepository
	productRepo   repositories.ProductRepositoryImpl
	categoryRepo  repositories.CategoryRepositoryImpl
	variationRepo repositories.VariationRepository
}

func NewDiscountService(
	codeRepo repositories.DiscountCodeRepository,
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	variationRepo repositories.VariationRepository,
) *DiscountService {
	return &DiscountService{
		codeRepo:      codeRepo,
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		variationRepo: variationRepo,
	}
}

// Create stores a discount code scoped to the given products and categories.
// An empty scope makes the code valid for any cart.
func (s *DiscountService) Create(ctx context.Context, code *models.DiscountCode, productIDs, categoryIDs []string) error {
	code.Code = models.NormalizeDiscountCode(code.Code)
	if code.Code == "" || strings.ContainsAny(code.Code, " \t") {
		return fmt.Errorf("%w: code must be a single word", ErrDiscountCodeInvalid)
	}
	exists, err := s.codeRepo.CodeExists(ctx, code.Code)
	if err != nil {
		return fmt.Errorf("failed to check discount code: %w", err)
	}
	if exists {
		return ErrDuplicateDiscountCode
	}

	products, err := s.productRepo.GetByIDs(ctx, nil, productIDs)
	if err != nil {
		return fmt.Errorf("failed to get products: %w", err)
	}
	if len(products) != len(uniqueStrings(productIDs)) {
		return ErrProductNotFound
	}
	categories, err := s.categoryRepo.GetByIDs(ctx, nil, categoryIDs)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	if len(categories) != len(uniqueStrings(categoryIDs)) {
		return ErrCategoryNotFound
	}
	code.Products = products
	code.Categories = categories

	if err := s.codeRepo.Create(ctx, code); err != nil {
		log.Printf("DiscountService.Create: failed to create %s: %v", code.Code, err)
		return fmt.Errorf("failed to create discount code: %w", err)
	}
	return nil
}

func (s *DiscountService) List(ctx context.Context) ([]models.DiscountCode, error) {
	return s.codeRepo.GetAll(ctx)
}

// GetValid returns the discount code when it can be used for cart at now,
// or nil. A code is usable when it is active, inside its validity window,
// the cart reaches its minimum purchase and, for scoped codes, the cart holds
// at least one product in scope.
func (s *DiscountService) GetValid(ctx context.Context, code string, cart *models.Cart, now time.Time) (*models.DiscountCode, error) {
	return s.getValid(ctx, nil, code, cart, now)
}

// getValid runs the GetValid checks on tx, or on the default connection when
// tx is nil.
func (s *DiscountService) getValid(ctx context.Context, tx *gorm.DB, code string, cart *models.Cart, now time.Time) (*models.DiscountCode, error) {
	dc, err := s.codeRepo.GetByCode(ctx, tx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}
	if dc == nil || !dc.IsValidAt(now) {
		return nil, nil
	}
	if cart == nil || !dc.MeetsMinimum(cart.TotalPrice()) {
		return nil, nil
	}
	if !dc.IsScoped() {
		return dc, nil
	}

	inScope, err := s.scopeProductIDs(ctx, tx, dc)
	if err != nil {
		return nil, err
	}
	for _, sku := range cart.Skus() {
		variation, err := s.variationRepo.GetBySku(ctx, tx, sku)
		if err != nil {
			return nil, fmt.Errorf("failed to get variation %s: %w", sku, err)
		}
		if variation != nil && inScope[variation.ProductID] {
			return dc, nil
		}
	}
	return nil, nil
}

func (s *DiscountService) scopeProductIDs(ctx context.Context, tx *gorm.DB, dc *models.DiscountCode) (map[string]bool, error) {
	ids := make(map[string]bool)
	for _, p := range dc.Products {
		ids[p.ID] = true
	}
	categoryIDs := make([]string, 0, len(dc.Categories))
	for _, c := range dc.Categories {
		categoryIDs = append(categoryIDs, c.ID)
	}
	inCategories, err := s.productRepo.IDsInCategories(ctx, tx, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get category products: %w", err)
	}
	for _, id := range inCategories {
		ids[id] = true
	}
	return ids, nil
}

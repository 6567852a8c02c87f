package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/models/migrations"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingActions struct {
	mu        sync.Mutex
	carted    []string
	purchased []string
}

func (r *recordingActions) AddedToCart(_ context.Context, productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carted = append(r.carted, productID)
}

func (r *recordingActions) Purchased(_ context.Context, productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchased = append(r.purchased, productID)
}

type testEnv struct {
	db        *gorm.DB
	catalog   *CatalogService
	carts     *CartService
	checkout  *CheckoutService
	discounts *DiscountService
	sales     *SaleService
	actions   *recordingActions
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	variationRepo := repositories.NewVariationRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	actions := &recordingActions{}

	catalog := NewCatalogService(db, categoryRepo, productRepo, variationRepo,
		repositories.NewImageRepository(db), repositories.NewOptionRepository(db), cartRepo,
		models.OptionTypes{"Size", "Colour"})
	discounts := NewDiscountService(repositories.NewDiscountCodeRepository(db), productRepo, categoryRepo, variationRepo)
	rates := map[string]decimal.Decimal{
		"standard": decimal.NewFromInt(10),
		"express":  decimal.NewFromInt(25),
	}

	return &testEnv{
		db:        db,
		catalog:   catalog,
		carts:     NewCartService(cartRepo, catalog, actions),
		checkout:  NewCheckoutService(db, cartRepo, variationRepo, repositories.NewOrderRepository(db), discounts, actions, rates),
		discounts: discounts,
		sales:     NewSaleService(db, repositories.NewSaleRepository(db), productRepo, categoryRepo, variationRepo),
		actions:   actions,
	}
}

func price(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func intPtr(n int) *int { return &n }

// createProduct makes an active product priced at unitPrice with its
// placeholder variation stocked at stock (nil for untracked).
func (e *testEnv) createProduct(t *testing.T, title, unitPrice string, stock *int, categoryIDs ...string) (*models.Product, models.ProductVariation) {
	t.Helper()
	ctx := context.Background()
	product := &models.Product{Title: title, Active: true, Available: true}
	if unitPrice != "" {
		product.UnitPrice = price(unitPrice)
	}
	require.NoError(t, e.catalog.CreateProduct(ctx, product, categoryIDs))
	require.Len(t, product.Variations, 1)

	variation := product.Variations[0]
	if stock != nil {
		variation.NumInStock = stock
		require.NoError(t, e.catalog.UpdateVariation(ctx, &variation))
	}
	return product, variation
}

func (e *testEnv) reloadVariation(t *testing.T, sku string) *models.ProductVariation {
	t.Helper()
	v, err := e.catalog.GetVariationBySku(context.Background(), sku)
	require.NoError(t, err)
	return v
}

func (e *testEnv) reloadProduct(t *testing.T, id string) *models.Product {
	t.Helper()
	p, err := e.catalog.GetProductByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/models/migrations"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func createProduct(t *testing.T, db *gorm.DB, slug string) *models.Product {
	t.Helper()
	product := &models.Product{Title: slug, Slug: slug, Active: true}
	require.NoError(t, NewProductRepository(db).Create(context.Background(), nil, product))
	return product
}

func intPtr(n int) *int { return &n }

func TestVariationRepositoryIntegrity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewVariationRepository(db)
	product := createProduct(t, db, "shirt")

	first := &models.ProductVariation{ProductID: product.ID, Sku: "SHIRT-S", Default: true}
	require.NoError(t, repo.Create(ctx, nil, first))

	err := repo.Create(ctx, nil, &models.ProductVariation{ProductID: product.ID, Sku: "SHIRT-S"})
	assert.ErrorIs(t, err, ErrDuplicateSku)

	err = repo.Create(ctx, nil, &models.ProductVariation{ProductID: product.ID, Sku: "SHIRT-M", Default: true})
	assert.ErrorIs(t, err, ErrDuplicateDefault)

	second := &models.ProductVariation{ProductID: product.ID}
	require.NoError(t, repo.Create(ctx, nil, second))
	assert.Equal(t, second.ID, second.Sku, "sku defaults to the id")

	first.NumInStock = intPtr(3)
	require.NoError(t, repo.Update(ctx, nil, first), "saving a row must not clash with itself")

	second.Sku = "SHIRT-S"
	assert.ErrorIs(t, repo.Update(ctx, nil, second), ErrDuplicateSku)

	require.NoError(t, repo.ClearDefault(ctx, nil, product.ID))
	exists, err := repo.DefaultExists(ctx, nil, product.ID, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVariationRepositoryDecrementStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewVariationRepository(db)
	product := createProduct(t, db, "mug")

	tracked := &models.ProductVariation{ProductID: product.ID, Sku: "MUG", NumInStock: intPtr(5)}
	untracked := &models.ProductVariation{ProductID: product.ID, Sku: "MUG-DIGITAL"}
	require.NoError(t, repo.Create(ctx, nil, tracked))
	require.NoError(t, repo.Create(ctx, nil, untracked))

	ok, err := repo.DecrementStock(ctx, nil, tracked.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, nil, tracked.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok, "only 2 left")

	ok, err = repo.DecrementStock(ctx, nil, untracked.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetBySku(ctx, nil, "MUG")
	require.NoError(t, err)
	require.NotNil(t, got.NumInStock)
	assert.Equal(t, 2, *got.NumInStock)
	require.NotNil(t, got.Product)
	assert.Equal(t, product.ID, got.Product.ID)

	missing, err := repo.GetBySku(ctx, nil, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCartRepositorySumQuantityBySku(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCartRepository(db)

	total, err := repo.SumQuantityBySku(ctx, "HAT")
	require.NoError(t, err)
	assert.Zero(t, total)

	for _, qty := range []int{2, 3} {
		cart, err := repo.GetOrCreate(ctx, "")
		require.NoError(t, err)
		require.NoError(t, repo.SaveItem(ctx, &models.CartItem{
			CartID:          cart.ID,
			SelectedProduct: models.SelectedProduct{Sku: "HAT", Quantity: qty, UnitPrice: decimal.NewFromInt(10)},
		}))
	}

	total, err = repo.SumQuantityBySku(ctx, "HAT")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestCartRepositoryGetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCartRepository(db)

	a, err := repo.GetOrCreate(ctx, "")
	require.NoError(t, err)
	b, err := repo.GetOrCreate(ctx, "")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID, "an empty id always starts a new cart")

	again, err := repo.GetOrCreate(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)
}

func TestCartRepositoryDeleteUpdatedBefore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCartRepository(db)

	stale, err := repo.GetOrCreate(ctx, "")
	require.NoError(t, err)
	fresh, err := repo.GetOrCreate(ctx, "")
	require.NoError(t, err)
	require.NoError(t, repo.SaveItem(ctx, &models.CartItem{
		CartID:          stale.ID,
		SelectedProduct: models.SelectedProduct{Sku: "OLD", Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
	}))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", stale.ID).UpdateColumn("last_updated", old).Error)

	deleted, err := repo.DeleteUpdatedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	gone, err := repo.GetCartWithItems(ctx, nil, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	var items int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", stale.ID).Count(&items).Error)
	assert.Zero(t, items)

	kept, err := repo.GetCartWithItems(ctx, nil, fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestActionRepositoryIncrement(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewActionRepository(db)
	bucket := models.ActionBucket(time.Now())

	require.NoError(t, repo.Increment(ctx, "p1", bucket, ActionColumnCart))
	require.NoError(t, repo.Increment(ctx, "p1", bucket, ActionColumnCart))
	require.NoError(t, repo.Increment(ctx, "p1", bucket, ActionColumnPurchase))
	require.NoError(t, repo.Increment(ctx, "p1", bucket-86400, ActionColumnCart))

	actions, err := repo.GetForProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, 1, actions[0].TotalCart)
	assert.Equal(t, 2, actions[1].TotalCart)
	assert.Equal(t, 1, actions[1].TotalPurchase)
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", models.OrderStatusProcessed), ErrNotFound)

	order := &models.Order{ItemTotal: decimal.NewFromInt(40), ShippingTotal: decimal.NewNullDecimal(decimal.NewFromInt(5))}
	require.NoError(t, repo.Create(ctx, nil, order))
	require.NoError(t, repo.BulkCreateItems(ctx, nil, []models.OrderItem{{
		OrderID:         order.ID,
		SelectedProduct: models.SelectedProduct{Sku: "A", Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
	}}))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, models.OrderStatusProcessed))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessed, got.Status)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(45)))
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].TotalPrice.Equal(decimal.NewFromInt(40)))

	missing, err := repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaleRepositoryClearOverrides(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSaleRepository(db)
	product := createProduct(t, db, "lamp")
	other := createProduct(t, db, "desk")

	override := SaleOverride{SaleID: "sale-1", Price: decimal.NewFromInt(9)}
	require.NoError(t, repo.SetProductSalePrice(ctx, nil, product.ID, override))
	require.NoError(t, repo.SetProductSalePrice(ctx, nil, other.ID, SaleOverride{SaleID: "sale-2", Price: decimal.NewFromInt(7)}))

	require.NoError(t, repo.ClearOverrides(ctx, nil, "sale-1"))

	products := NewProductRepository(db)
	got, err := products.GetByID(ctx, nil, product.ID)
	require.NoError(t, err)
	assert.False(t, got.SalePrice.Valid)
	assert.Nil(t, got.SaleID)

	untouched, err := products.GetByID(ctx, nil, other.ID)
	require.NoError(t, err)
	assert.True(t, untouched.SalePrice.Valid)
	assert.True(t, untouched.SalePrice.Decimal.Equal(decimal.NewFromInt(7)))
}

func TestDiscountCodeRepositoryNormalizesCode(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewDiscountCodeRepository(db)

	require.NoError(t, repo.Create(ctx, &models.DiscountCode{Code: " summer ", Discount: models.Discount{Title: "Summer", Active: true}}))

	exists, err := repo.CodeExists(ctx, "SUMMER")
	require.NoError(t, err)
	assert.True(t, exists)

	dc, err := repo.GetByCode(ctx, nil, "Summer")
	require.NoError(t, err)
	require.NotNil(t, dc)
	assert.Equal(t, "SUMMER", dc.Code)
}

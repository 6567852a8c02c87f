package services

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryTree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	clothing, err := env.catalog.CreateCategory(ctx, "Clothing", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "clothing", clothing.Slug)
	assert.Equal(t, "Clothing", clothing.Titles)
	assert.Equal(t, 0, clothing.Ordering)

	shirts, err := env.catalog.CreateCategory(ctx, "Shirts", &clothing.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "clothing/shirts", shirts.Slug)

	long, err := env.catalog.CreateCategory(ctx, "Long Sleeve", &shirts.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "clothing/shirts/long-sleeve", long.Slug)
	assert.Equal(t, "Clothing / Shirts / Long Sleeve", long.Titles)

	again, err := env.catalog.CreateCategory(ctx, "Clothing", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "clothing-1", again.Slug)
	assert.Equal(t, 1, again.Ordering)

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = env.catalog.CreateCategory(ctx, "Orphan", &missing, true)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetCategoryBySlugHidesInactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateCategory(ctx, "Hidden", nil, false)
	require.NoError(t, err)

	_, err = env.catalog.GetCategoryBySlug(ctx, "hidden")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	_, err = env.catalog.GetCategoryBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategoryCompactsOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.catalog.CreateCategory(ctx, "A", nil, true)
	require.NoError(t, err)
	b, err := env.catalog.CreateCategory(ctx, "B", nil, true)
	require.NoError(t, err)
	c, err := env.catalog.CreateCategory(ctx, "C", nil, true)
	require.NoError(t, err)
	child, err := env.catalog.CreateCategory(ctx, "B child", &b.ID, true)
	require.NoError(t, err)
	product, _ := env.createProduct(t, "Tagged", "5", nil, child.ID)

	require.NoError(t, env.catalog.DeleteCategory(ctx, b.ID))

	categories, err := env.catalog.ListCategories(ctx)
	require.NoError(t, err)
	ordering := map[string]int{}
	for _, cat := range categories {
		ordering[cat.ID] = cat.Ordering
	}
	assert.Len(t, ordering, 2)
	assert.Equal(t, 0, ordering[a.ID])
	assert.Equal(t, 1, ordering[c.ID])

	reloaded := env.reloadProduct(t, product.ID)
	assert.Empty(t, reloaded.Categories)

	assert.ErrorIs(t, env.catalog.DeleteCategory(ctx, b.ID), ErrCategoryNotFound)
}

func TestCreateProductAddsPlaceholderVariation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, err := env.catalog.CreateCategory(ctx, "Hats", nil, true)
	require.NoError(t, err)

	product, placeholder := env.createProduct(t, "Wool Hat", "19.99", nil, category.ID)
	assert.Equal(t, "wool-hat", product.Slug)
	assert.True(t, placeholder.Default)
	assert.Equal(t, placeholder.ID, placeholder.Sku)
	require.Len(t, placeholder.Options, 2)
	for _, o := range placeholder.Options {
		assert.Empty(t, o.Value)
	}
	assert.True(t, product.UnitPrice.Decimal.Equal(decimal.RequireFromString("19.99")))
	require.Len(t, product.Categories, 1)

	dup, _ := env.createProduct(t, "Wool Hat", "10", nil)
	assert.Equal(t, "wool-hat-1", dup.Slug)

	err = env.catalog.CreateProduct(ctx, &models.Product{Title: "Lost"}, []string{"missing"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateProductWithImages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := &models.Product{
		Title:  "Poster",
		Active: true,
		Priced: models.Priced{UnitPrice: price("12")},
		Images: []models.ProductImage{{File: "/a.jpg"}, {File: "/b.jpg"}},
	}
	require.NoError(t, env.catalog.CreateProduct(ctx, product, nil))

	require.Len(t, product.Images, 2)
	assert.Equal(t, "/a.jpg", product.Images[0].File)
	assert.Equal(t, 1, product.Images[1].Position)
	assert.Equal(t, "/a.jpg", product.Image)
	require.Len(t, product.Variations, 1)
	require.NotNil(t, product.Variations[0].ImageID)
	assert.Equal(t, product.Images[0].ID, *product.Variations[0].ImageID)
}

func TestAddImageFillsVariationsWithoutImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product, variation := env.createProduct(t, "Vase", "30", nil)

	first, err := env.catalog.AddImage(ctx, product.ID, "/vase.jpg", "front")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	second, err := env.catalog.AddImage(ctx, product.ID, "/vase-2.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)

	v := env.reloadVariation(t, variation.Sku)
	require.NotNil(t, v.ImageID)
	assert.Equal(t, first.ID, *v.ImageID)
	assert.Equal(t, "/vase.jpg", env.reloadProduct(t, product.ID).Image)

	_, err = env.catalog.AddImage(ctx, "missing", "/x.jpg", "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateVariationReplacesPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product, placeholder := env.createProduct(t, "Tee", "15", nil)

	medium := &models.ProductVariation{
		ProductID: product.ID,
		Sku:       "TEE-M",
		Options:   []models.OptionSelection{{Name: "Size", Value: "M"}},
		Priced:    models.Priced{UnitPrice: price("16")},
	}
	require.NoError(t, env.catalog.CreateVariation(ctx, medium))

	reloaded := env.reloadProduct(t, product.ID)
	require.Len(t, reloaded.Variations, 1)
	got := reloaded.Variations[0]
	assert.Equal(t, "TEE-M", got.Sku)
	assert.True(t, got.Default)
	assert.Equal(t, []models.OptionSelection{{Name: "Size", Value: "M"}, {Name: "Colour", Value: ""}}, []models.OptionSelection(got.Options))
	assert.True(t, reloaded.UnitPrice.Decimal.Equal(decimal.NewFromInt(16)))

	_, err := env.catalog.GetVariationBySku(ctx, placeholder.Sku)
	assert.ErrorIs(t, err, ErrVariationNotFound)

	dup := &models.ProductVariation{ProductID: product.ID, Options: []models.OptionSelection{{Name: "Size", Value: "M"}}}
	assert.ErrorIs(t, env.catalog.CreateVariation(ctx, dup), ErrDuplicateCombination)

	sameSku := &models.ProductVariation{ProductID: product.ID, Sku: "TEE-M", Options: []models.OptionSelection{{Name: "Size", Value: "L"}}}
	assert.ErrorIs(t, env.catalog.CreateVariation(ctx, sameSku), repositories.ErrDuplicateSku)

	bad := &models.ProductVariation{ProductID: product.ID, Options: []models.OptionSelection{{Name: "Material", Value: "Wool"}}}
	assert.ErrorIs(t, env.catalog.CreateVariation(ctx, bad), ErrInvalidOptions)
}

func TestCreateVariationChecksRegisteredValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product, _ := env.createProduct(t, "Sock", "3", nil)

	_, err := env.catalog.AddOptionValue(ctx, "Size", "M")
	require.NoError(t, err)
	_, err = env.catalog.AddOptionValue(ctx, "Size", "M")
	require.NoError(t, err, "adding a value twice is ignored")
	_, err = env.catalog.AddOptionValue(ctx, "Material", "Wool")
	assert.ErrorIs(t, err, ErrInvalidOptions)

	values, err := env.catalog.ListOptionValues(ctx, "Size")
	require.NoError(t, err)
	assert.Len(t, values, 1)

	xxl := &models.ProductVariation{ProductID: product.ID, Options: []models.OptionSelection{{Name: "Size", Value: "XXL"}}}
	assert.ErrorIs(t, env.catalog.CreateVariation(ctx, xxl), ErrInvalidOptions)

	// Colour has no registered values, so any value is accepted.
	red := &models.ProductVariation{ProductID: product.ID, Options: []models.OptionSelection{{Name: "Size", Value: "M"}, {Name: "Colour", Value: "Red"}}}
	assert.NoError(t, env.catalog.CreateVariation(ctx, red))
}

func TestCreateVariationsFromOptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product, _ := env.createProduct(t, "Hoodie", "40", nil)

	values := map[string][]string{"Size": {"S", "M"}, "Colour": {"Red"}}
	created, err := env.catalog.CreateVariationsFromOptions(ctx, product.ID, values)
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, v := range created {
		assert.True(t, v.UnitPrice.Decimal.Equal(decimal.NewFromInt(40)))
	}

	reloaded := env.reloadProduct(t, product.ID)
	require.Len(t, reloaded.Variations, 2, "placeholder is dropped")
	defaults := 0
	for _, v := range reloaded.Variations {
		if v.Default {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	created, err = env.catalog.CreateVariationsFromOptions(ctx, product.ID, map[string][]string{"Size": {"S", "M", "L"}, "Colour": {"Red"}})
	require.NoError(t, err)
	require.Len(t, created, 1, "existing combinations are skipped")
	assert.Equal(t, "L", created[0].Options[0].Value)

	_, err = env.catalog.CreateVariationsFromOptions(ctx, "missing", values)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGeneratedVariationsCanBeUpdated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product, _ := env.createProduct(t, "Beanie", "12", nil)

	created, err := env.catalog.CreateVariationsFromOptions(ctx, product.ID, map[string][]string{"Size": {"S", "M"}})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.True(t, created[0].Default, "the first generated variation is returned as default")
	assert.False(t, created[1].Default)

	stale := created[0]
	stale.Default = false
	stale.NumInStock = intPtr(4)
	require.NoError(t, env.catalog.UpdateVariation(ctx, &stale))
	assert.True(t, stale.Default, "updates keep the stored default")

	for i := range created {
		created[i].NumInStock = intPtr(2)
		require.NoError(t, env.catalog.UpdateVariation(ctx, &created[i]))
	}
	reloaded := env.reloadProduct(t, product.ID)
	for _, v := range reloaded.Variations {
		assert.Equal(t, v.ID == created[0].ID, v.Default, v.Sku)
		require.NotNil(t, v.NumInStock)
		assert.Equal(t, 2, *v.NumInStock)
	}

	single := &models.ProductVariation{ProductID: product.ID, Options: []models.OptionSelection{{Name: "Size", Value: "L"}}}
	require.NoError(t, env.catalog.CreateVariation(ctx, single))
	assert.False(t, single.Default)
	assert.NotEmpty(t, single.Sku)
}

func TestSetDefaultVariationCopiesPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product, _ := env.createProduct(t, "Scarf", "20", nil)

	small := &models.ProductVariation{ProductID: product.ID, Sku: "SCARF-S", Options: []models.OptionSelection{{Name: "Size", Value: "S"}}, Priced: models.Priced{UnitPrice: price("20")}}
	large := &models.ProductVariation{ProductID: product.ID, Sku: "SCARF-L", Options: []models.OptionSelection{{Name: "Size", Value: "L"}}, Priced: models.Priced{UnitPrice: price("25")}}
	require.NoError(t, env.catalog.CreateVariation(ctx, small))
	require.NoError(t, env.catalog.CreateVariation(ctx, large))

	require.NoError(t, env.catalog.SetDefaultVariation(ctx, product.ID, large.ID))

	reloaded := env.reloadProduct(t, product.ID)
	assert.True(t, reloaded.UnitPrice.Decimal.Equal(decimal.NewFromInt(25)))
	for _, v := range reloaded.Variations {
		assert.Equal(t, v.ID == large.ID, v.Default, v.Sku)
	}

	assert.ErrorIs(t, env.catalog.SetDefaultVariation(ctx, "other", large.ID), ErrVariationNotFound)
}

func TestUpdateVariationRefreshesProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product, variation := env.createProduct(t, "Cap", "10", nil)

	from := time.Now().Add(-time.Hour)
	variation.SalePrice = price("8")
	variation.SaleFrom = &from
	require.NoError(t, env.catalog.UpdateVariation(ctx, &variation))

	reloaded := env.reloadProduct(t, product.ID)
	assert.True(t, reloaded.OnSale(time.Now()))
	assert.True(t, reloaded.Price(time.Now()).Equal(decimal.NewFromInt(8)))

	variation.ID = "missing"
	assert.ErrorIs(t, env.catalog.UpdateVariation(ctx, &variation), ErrVariationNotFound)
}

func TestHasStockCountsCartsAndMemo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, variation := env.createProduct(t, "Pen", "2", intPtr(5))
	v := env.reloadVariation(t, variation.Sku)

	_, err := env.carts.AddVariation(ctx, "", v.Sku, 3)
	require.NoError(t, err)

	ok, err := env.catalog.HasStock(ctx, v, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = env.catalog.HasStock(ctx, v, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	memo := NewStockMemo()
	memoCtx := WithStockMemo(ctx, memo)
	ok, err = env.catalog.HasStock(memoCtx, v, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// Another cart takes the rest; the memo still answers from the first lookup.
	_, err = env.carts.AddVariation(ctx, "", v.Sku, 2)
	require.NoError(t, err)
	ok, err = env.catalog.HasStock(memoCtx, v, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	memo.Forget(v.Sku)
	ok, err = env.catalog.HasStock(memoCtx, v, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	untracked := &models.ProductVariation{Sku: "FREE"}
	ok, err = env.catalog.HasStock(ctx, untracked, 1000)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStorefrontLookupsHideInactiveProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hidden := &models.Product{Title: "Draft", Priced: models.Priced{UnitPrice: price("5")}}
	require.NoError(t, env.catalog.CreateProduct(ctx, hidden, nil))
	_, err := env.catalog.GetProductBySlug(ctx, hidden.Slug)
	assert.ErrorIs(t, err, ErrProductNotFound)

	shown, _ := env.createProduct(t, "Draft Beer Glass", "5", nil)
	got, err := env.catalog.GetProductBySlug(ctx, shown.Slug)
	require.NoError(t, err)
	assert.Equal(t, shown.ID, got.ID)

	products, total, err := env.catalog.SearchProducts(ctx, "draft", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, shown.ID, products[0].ID)
}

func TestListCategoryProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, err := env.catalog.CreateCategory(ctx, "Mugs", nil, true)
	require.NoError(t, err)

	for _, title := range []string{"Red Mug", "Blue Mug", "Green Mug"} {
		env.createProduct(t, title, "8", nil, category.ID)
	}
	env.createProduct(t, "Plate", "8", nil)

	products, total, err := env.catalog.ListCategoryProducts(ctx, "mugs", 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, products, 2)

	_, _, err = env.catalog.ListCategoryProducts(ctx, "plates", 2, 0)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billing() *models.Order {
	return &models.Order{
		BillingDetailFirstName:  "Ada",
		BillingDetailLastName:   "Lovelace",
		BillingDetailStreet:     "1 Analytical Way",
		BillingDetailCity:       "London",
		BillingDetailState:      "London",
		BillingDetailPostcode:   "N1",
		BillingDetailCountry:    "UK",
		BillingDetailPhone:      "0123",
		BillingDetailEmail:      "ada@example.com",
		ShippingDetailFirstName: "Ada",
		ShippingDetailLastName:  "Lovelace",
		ShippingDetailStreet:    "1 Analytical Way",
		ShippingDetailCity:      "London",
		ShippingDetailState:     "London",
		ShippingDetailPostcode:  "N1",
		ShippingDetailCountry:   "UK",
		ShippingDetailPhone:     "0123",
	}
}

func TestProcessPlacesOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tracked, trackedVariation := env.createProduct(t, "Kettle", "10", intPtr(5))
	untracked, untrackedVariation := env.createProduct(t, "Ebook", "5", nil)

	cart, err := env.carts.AddVariation(ctx, "", trackedVariation.Sku, 2)
	require.NoError(t, err)
	_, err = env.carts.AddVariation(ctx, cart.ID, untrackedVariation.Sku, 1)
	require.NoError(t, err)

	var stage CheckoutStage
	require.NoError(t, env.checkout.StageShipping(&stage, "standard"))

	order, err := env.checkout.Process(ctx, billing(), ProcessInput{CartID: cart.ID, Stage: stage, SessionKey: "session-1"})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusUnprocessed, order.Status)
	assert.True(t, order.ItemTotal.Equal(decimal.NewFromInt(25)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, "standard", order.ShippingType)
	assert.Equal(t, "session-1", order.Key)
	require.Len(t, order.Items, 2)

	v := env.reloadVariation(t, trackedVariation.Sku)
	assert.Equal(t, 3, *v.NumInStock)
	assert.Nil(t, env.reloadVariation(t, untrackedVariation.Sku).NumInStock)

	stored, err := env.checkout.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(decimal.NewFromInt(35)))
	assert.Len(t, stored.Items, 2)

	empty, err := env.carts.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Items, "the cart is consumed")

	assert.ElementsMatch(t, []string{tracked.ID, untracked.ID}, env.actions.purchased)
}

func TestProcessRollsBackOnInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, plenty := env.createProduct(t, "Spoon", "1", intPtr(10))
	_, scarce := env.createProduct(t, "Fork", "1", intPtr(2))

	cart, err := env.carts.AddVariation(ctx, "", plenty.Sku, 4)
	require.NoError(t, err)
	_, err = env.carts.AddVariation(ctx, cart.ID, scarce.Sku, 2)
	require.NoError(t, err)

	// Stock is sold elsewhere after the items went into the cart.
	require.NoError(t, env.db.Model(&models.ProductVariation{}).Where("sku = ?", scarce.Sku).UpdateColumn("num_in_stock", 1).Error)

	_, err = env.checkout.Process(ctx, billing(), ProcessInput{CartID: cart.ID})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 10, *env.reloadVariation(t, plenty.Sku).NumInStock)
	assert.Equal(t, 1, *env.reloadVariation(t, scarce.Sku).NumInStock)

	orders, err := env.checkout.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	kept, err := env.carts.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Items, 2)
	assert.Empty(t, env.actions.purchased)
}

func TestProcessRejectsEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.checkout.Process(ctx, billing(), ProcessInput{CartID: "missing"})
	assert.ErrorIs(t, err, ErrEmptyCart)

	cart, err := env.carts.GetCart(ctx, "")
	require.NoError(t, err)
	_, err = env.checkout.Process(ctx, billing(), ProcessInput{CartID: cart.ID})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestStageShipping(t *testing.T) {
	env := newTestEnv(t)

	var stage CheckoutStage
	assert.ErrorIs(t, env.checkout.StageShipping(&stage, "teleport"), ErrUnknownShippingType)

	require.NoError(t, env.checkout.StageShipping(&stage, "express"))
	assert.True(t, stage.ShippingTotal.Decimal.Equal(decimal.NewFromInt(25)))

	free := CheckoutStage{ShippingType: FreeShippingType, ShippingTotal: decimal.NewNullDecimal(decimal.Zero)}
	require.NoError(t, env.checkout.StageShipping(&free, "express"))
	assert.Equal(t, FreeShippingType, free.ShippingType)
	assert.True(t, free.ShippingTotal.Decimal.IsZero())
}

func TestProcessAppliesDiscountCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, variation := env.createProduct(t, "Teapot", "30", nil)

	require.NoError(t, env.discounts.Create(ctx, &models.DiscountCode{
		Code:         "tenoff",
		Discount:     models.Discount{Title: "Ten percent", Active: true, DiscountPercent: price("10")},
		FreeShipping: true,
	}, nil, nil))

	cart, err := env.carts.AddVariation(ctx, "", variation.Sku, 1)
	require.NoError(t, err)

	var stage CheckoutStage
	require.NoError(t, env.checkout.StageShipping(&stage, "standard"))
	require.NoError(t, env.checkout.ApplyDiscountCode(ctx, &stage, cart, "TenOff"))
	assert.Equal(t, "TENOFF", stage.DiscountCode)
	assert.True(t, stage.DiscountTotal.Decimal.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, FreeShippingType, stage.ShippingType)

	assert.ErrorIs(t, env.checkout.ApplyDiscountCode(ctx, &CheckoutStage{}, cart, "nope"), ErrDiscountCodeInvalid)

	order, err := env.checkout.Process(ctx, billing(), ProcessInput{CartID: cart.ID, Stage: stage})
	require.NoError(t, err)
	assert.Equal(t, "TENOFF", order.DiscountCode)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(27)))
}

func TestProcessRevalidatesStagedDiscount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, variation := env.createProduct(t, "Saucer", "30", nil)

	require.NoError(t, env.discounts.Create(ctx, &models.DiscountCode{
		Code:        "BIG",
		Discount:    models.Discount{Title: "Big spender", Active: true, DiscountDeduct: price("5")},
		MinPurchase: price("50"),
	}, nil, nil))

	cart, err := env.carts.AddVariation(ctx, "", variation.Sku, 1)
	require.NoError(t, err)

	stage := CheckoutStage{DiscountCode: "BIG", DiscountTotal: price("5")}
	_, err = env.checkout.Process(ctx, billing(), ProcessInput{CartID: cart.ID, Stage: stage})
	assert.ErrorIs(t, err, ErrDiscountCodeInvalid)
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, variation := env.createProduct(t, "Tray", "12", nil)
	cart, err := env.carts.AddVariation(ctx, "", variation.Sku, 1)
	require.NoError(t, err)
	order, err := env.checkout.Process(ctx, billing(), ProcessInput{CartID: cart.ID})
	require.NoError(t, err)

	updated, err := env.checkout.UpdateStatus(ctx, order.ID, models.OrderStatusProcessed)
	require.NoError(t, err)
	assert.Equal(t, "Processed", updated.StatusName())

	_, err = env.checkout.UpdateStatus(ctx, order.ID, models.OrderStatusUnprocessed)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = env.checkout.UpdateStatus(ctx, "missing", models.OrderStatusProcessed)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	stored, err := env.checkout.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessed, stored.Status)
	assert.True(t, stored.Total.Equal(decimal.NewFromInt(12)))
}

func TestProcessPricesDiscountOnCheckedOutCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tea, err := env.catalog.CreateCategory(ctx, "Tea", nil, true)
	require.NoError(t, err)
	_, variation := env.createProduct(t, "Oolong", "30", nil, tea.ID)

	require.NoError(t, env.discounts.Create(ctx, &models.DiscountCode{
		Code:     "LEAF",
		Discount: models.Discount{Title: "Leaf lovers", Active: true, DiscountPercent: price("10")},
	}, nil, []string{tea.ID}))

	cart, err := env.carts.AddVariation(ctx, "", variation.Sku, 1)
	require.NoError(t, err)

	var stage CheckoutStage
	require.NoError(t, env.checkout.StageShipping(&stage, "standard"))
	require.NoError(t, env.checkout.ApplyDiscountCode(ctx, &stage, cart, "leaf"))
	require.True(t, stage.DiscountTotal.Decimal.Equal(decimal.NewFromInt(3)))

	_, err = env.carts.AddVariation(ctx, cart.ID, variation.Sku, 1)
	require.NoError(t, err)

	order, err := env.checkout.Process(ctx, billing(), ProcessInput{CartID: cart.ID, Stage: stage})
	require.NoError(t, err)
	assert.True(t, order.ItemTotal.Equal(decimal.NewFromInt(60)))
	assert.True(t, order.DiscountTotal.Decimal.Equal(decimal.NewFromInt(6)), order.DiscountTotal.Decimal.String())
	assert.True(t, order.Total.Equal(decimal.NewFromInt(64)), order.Total.String())
}

package routes

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-cartridge/app/configs"
	"github.com/Rakhulsr/go-cartridge/app/handlers"
	"github.com/Rakhulsr/go-cartridge/app/handlers/admin"
	"github.com/Rakhulsr/go-cartridge/app/middlewares"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/Rakhulsr/go-cartridge/app/utils/renderer"
	"github.com/Rakhulsr/go-cartridge/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Dependencies are the collaborators main decides on. Nil fields fall back
// to: product actions counted in the database, no payments, no receipts.
type Dependencies struct {
	SessionStore sessions.SessionStore
	Snap         services.SnapClient
	Actions      services.ActionRecorder
	Receipts     handlers.ReceiptSender
}

// Services bundles the domain services the router is built from. The CLI
// uses the same bundle.
type Services struct {
	Catalog   *services.CatalogService
	Carts     *services.CartService
	Checkout  *services.CheckoutService
	Discounts *services.DiscountService
	Sales     *services.SaleService
	Payments  *services.PaymentService
}

func NewServices(db *gorm.DB, env configs.ENV, deps Dependencies) (*Services, error) {
	shippingRates, err := configs.ParseShippingRates(env.ShippingRates)
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_RATES: %w", err)
	}

	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	variationRepo := repositories.NewVariationRepository(db)
	imageRepo := repositories.NewImageRepository(db)
	optionRepo := repositories.NewOptionRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	codeRepo := repositories.NewDiscountCodeRepository(db)

	actions := deps.Actions
	if actions == nil {
		actions = services.NewGormActionRecorder(repositories.NewActionRepository(db))
	}

	catalog := services.NewCatalogService(db, categoryRepo, productRepo, variationRepo, imageRepo, optionRepo, cartRepo, env.OptionTypes())
	discounts := services.NewDiscountService(codeRepo, productRepo, categoryRepo, variationRepo)

	svc := &Services{
		Catalog:   catalog,
		Carts:     services.NewCartService(cartRepo, catalog, actions),
		Checkout:  services.NewCheckoutService(db, cartRepo, variationRepo, orderRepo, discounts, actions, shippingRates),
		Discounts: discounts,
		Sales:     services.NewSaleService(db, saleRepo, productRepo, categoryRepo, variationRepo),
	}
	if deps.Snap != nil {
		svc.Payments = services.NewPaymentService(deps.Snap, repositories.NewPaymentRepository(db), env.MIDTRANS_SERVER_KEY, env.APP_URL)
	}
	return svc, nil
}

// NewRouter wires the storefront, the admin API and the payment callback.
func NewRouter(db *gorm.DB, env configs.ENV, deps Dependencies) (http.Handler, error) {
	if deps.SessionStore == nil {
		return nil, fmt.Errorf("session store is required")
	}
	svc, err := NewServices(db, env, deps)
	if err != nil {
		return nil, err
	}

	csrfKey, err := configs.DecodeCSRFKey(env.CSRFKey)
	if err != nil {
		return nil, err
	}

	rnd := renderer.New(!env.IsProduction())
	validate := validator.New()

	var payments handlers.PaymentStarter
	if svc.Payments != nil {
		payments = svc.Payments
	}

	shopHandler := handlers.NewShopHandler(rnd, svc.Catalog, env.CurrencySymbol)
	cartHandler := handlers.NewCartHandler(rnd, validate, svc.Carts, deps.SessionStore, env.CurrencySymbol)
	checkoutHandler := handlers.NewCheckoutHandler(rnd, validate, svc.Carts, svc.Checkout, payments, deps.Receipts, deps.SessionStore, env.CurrencySymbol)
	orderHandler := handlers.NewOrderHandler(rnd, svc.Checkout, svc.Payments, env.CurrencySymbol)
	adminHandler := admin.NewAdminHandler(rnd, validate, svc.Catalog, svc.Sales, svc.Discounts, svc.Checkout)

	router := mux.NewRouter()
	router.Use(middlewares.StockMemoMiddleware)

	router.HandleFunc("/payments/notification", orderHandler.PaymentNotification).Methods(http.MethodPost)

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.AdminBasicAuth(env.AdminUser, env.AdminPasswordHash))
	adminRouter.HandleFunc("/categories", adminHandler.ListCategories).Methods(http.MethodGet)
	adminRouter.HandleFunc("/categories", adminHandler.CreateCategory).Methods(http.MethodPost)
	adminRouter.HandleFunc("/categories/{id}", adminHandler.DeleteCategory).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/products", adminHandler.CreateProduct).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}", adminHandler.GetProduct).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products/{id}/images", adminHandler.AddImage).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}/variations", adminHandler.CreateVariation).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}/variations/generate", adminHandler.GenerateVariations).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}/variations/{variationID}", adminHandler.UpdateVariation).Methods(http.MethodPut)
	adminRouter.HandleFunc("/products/{id}/variations/{variationID}/default", adminHandler.SetDefaultVariation).Methods(http.MethodPost)
	adminRouter.HandleFunc("/options", adminHandler.ListOptionValues).Methods(http.MethodGet)
	adminRouter.HandleFunc("/options", adminHandler.AddOptionValue).Methods(http.MethodPost)
	adminRouter.HandleFunc("/sales", adminHandler.ListSales).Methods(http.MethodGet)
	adminRouter.HandleFunc("/sales", adminHandler.CreateSale).Methods(http.MethodPost)
	adminRouter.HandleFunc("/sales/{id}", adminHandler.UpdateSale).Methods(http.MethodPut)
	adminRouter.HandleFunc("/sales/{id}", adminHandler.DeleteSale).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/discount-codes", adminHandler.ListDiscountCodes).Methods(http.MethodGet)
	adminRouter.HandleFunc("/discount-codes", adminHandler.CreateDiscountCode).Methods(http.MethodPost)
	adminRouter.HandleFunc("/orders", adminHandler.ListOrders).Methods(http.MethodGet)
	adminRouter.HandleFunc("/orders/{id}", adminHandler.GetOrder).Methods(http.MethodGet)
	adminRouter.HandleFunc("/orders/{id}/status", adminHandler.UpdateOrderStatus).Methods(http.MethodPatch)

	shop := router.PathPrefix("/").Subrouter()
	shop.Use(middlewares.SessionContextMiddleware(deps.SessionStore))
	if csrfKey != nil {
		shop.Use(csrf.Protect(
			csrfKey,
			csrf.Secure(env.IsProduction()),
			csrf.Path("/"),
		))
		shop.HandleFunc("/csrf-token", func(w http.ResponseWriter, r *http.Request) {
			rnd.JSON(w, http.StatusOK, map[string]interface{}{"csrf_token": csrf.Token(r)})
		}).Methods(http.MethodGet)
	}
	shop.HandleFunc("/categories", shopHandler.ListCategories).Methods(http.MethodGet)
	shop.HandleFunc("/categories/{slug:.+}", shopHandler.GetCategory).Methods(http.MethodGet)
	shop.HandleFunc("/products", shopHandler.SearchProducts).Methods(http.MethodGet)
	shop.HandleFunc("/products/{slug}", shopHandler.GetProduct).Methods(http.MethodGet)
	shop.HandleFunc("/cart", cartHandler.GetCart).Methods(http.MethodGet)
	shop.HandleFunc("/cart/items", cartHandler.AddItem).Methods(http.MethodPost)
	shop.HandleFunc("/cart/items/{id}", cartHandler.UpdateItem).Methods(http.MethodPatch)
	shop.HandleFunc("/cart/items/{id}", cartHandler.RemoveItem).Methods(http.MethodDelete)
	shop.HandleFunc("/checkout/shipping", checkoutHandler.StageShipping).Methods(http.MethodPost)
	shop.HandleFunc("/checkout/discount", checkoutHandler.ApplyDiscount).Methods(http.MethodPost)
	shop.HandleFunc("/checkout", checkoutHandler.Process).Methods(http.MethodPost)
	shop.HandleFunc("/orders/{id}", orderHandler.GetOrder).Methods(http.MethodGet)

	return middlewares.MethodOverrideMiddleware(router), nil
}

package handlers

import (
	"net/http"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/Rakhulsr/go-cartridge/app/utils/format"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type ShopHandler struct {
	render  *render.Render
	catalog *services.CatalogService
	symbol  string
	now     func() time.Time
}

func NewShopHandler(render *render.Render, catalog *services.CatalogService, symbol string) *ShopHandler {
	return &ShopHandler{render: render, catalog: catalog, symbol: symbol, now: time.Now}
}

type variationView struct {
	models.ProductVariation
	Label        string `json:"label"`
	Price        string `json:"price"`
	PriceDisplay string `json:"price_display"`
	OnSale       bool   `json:"on_sale"`
}

type productView struct {
	*models.Product
	Price        string          `json:"price,omitempty"`
	PriceDisplay string          `json:"price_display,omitempty"`
	OnSale       bool            `json:"on_sale"`
	Variations   []variationView `json:"variations,omitempty"`
}

func (h *ShopHandler) productView(p *models.Product) productView {
	now := h.now()
	view := productView{Product: p, OnSale: p.OnSale(now)}
	if p.HasPrice(now) {
		price := p.Price(now)
		view.Price = price.StringFixed(2)
		view.PriceDisplay = format.Money(price, h.symbol)
	}
	for _, v := range p.Variations {
		v.Product = p
		price := v.Price(now)
		view.Variations = append(view.Variations, variationView{
			ProductVariation: v,
			Label:            v.OptionsLabel(),
			Price:            price.StringFixed(2),
			PriceDisplay:     format.Money(price, h.symbol),
			OnSale:           v.OnSale(now),
		})
	}
	return view
}

func (h *ShopHandler) productViews(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, h.productView(&products[i]))
	}
	return views
}

func (h *ShopHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		RespondError(h.render, w, "ShopHandler.ListCategories", err)
		return
	}
	active := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.Active {
			active = append(active, c)
		}
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"categories": active})
}

// GetCategory shows an active category with a page of its active products.
func (h *ShopHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	limit, offset := Pagination(r)

	category, err := h.catalog.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		RespondError(h.render, w, "ShopHandler.GetCategory", err)
		return
	}
	products, total, err := h.catalog.ListCategoryProducts(r.Context(), slug, limit, offset)
	if err != nil {
		RespondError(h.render, w, "ShopHandler.GetCategory", err)
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"products": h.productViews(products),
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *ShopHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset := Pagination(r)
	query := r.URL.Query().Get("q")

	products, total, err := h.catalog.SearchProducts(r.Context(), query, limit, offset)
	if err != nil {
		RespondError(h.render, w, "ShopHandler.SearchProducts", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"query":    query,
		"products": h.productViews(products),
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProductBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		RespondError(h.render, w, "ShopHandler.GetProduct", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"product": h.productView(product)})
}

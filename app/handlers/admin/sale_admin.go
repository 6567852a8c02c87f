package admin

import (
	"net/http"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountForm carries the reduction and validity window shared by sales and
// discount codes.
type DiscountForm struct {
	Title           string              `json:"title" validate:"required,max=100"`
	Active          bool                `json:"active"`
	DiscountDeduct  decimal.NullDecimal `json:"discount_deduct"`
	DiscountPercent decimal.NullDecimal `json:"discount_percent"`
	DiscountExact   decimal.NullDecimal `json:"discount_exact"`
	ValidFrom       *time.Time          `json:"valid_from"`
	ValidTo         *time.Time          `json:"valid_to"`
	ProductIDs      []string            `json:"product_ids" validate:"dive,uuid"`
	CategoryIDs     []string            `json:"category_ids" validate:"dive,uuid"`
}

func (f DiscountForm) discount() models.Discount {
	return models.Discount{
		Title:           f.Title,
		Active:          f.Active,
		DiscountDeduct:  f.DiscountDeduct,
		DiscountPercent: f.DiscountPercent,
		DiscountExact:   f.DiscountExact,
		ValidFrom:       f.ValidFrom,
		ValidTo:         f.ValidTo,
	}
}

func (f DiscountForm) errors() map[string]string {
	errs := make(map[string]string)
	set := 0
	for field, v := range map[string]decimal.NullDecimal{
		"discount_deduct":  f.DiscountDeduct,
		"discount_percent": f.DiscountPercent,
		"discount_exact":   f.DiscountExact,
	} {
		if !v.Valid {
			continue
		}
		set++
		if v.Decimal.IsNegative() {
			errs[field] = "Reduction must not be negative."
		}
	}
	if set > 1 {
		errs["discount"] = "Only one of deduct, percent and exact may be set."
	}
	if f.DiscountPercent.Valid && f.DiscountPercent.Decimal.GreaterThan(hundred) {
		errs["discount_percent"] = "Discount Percent must be at most 100."
	}
	if f.ValidFrom != nil && f.ValidTo != nil && f.ValidTo.Before(*f.ValidFrom) {
		errs["valid_to"] = "Valid To must not be before Valid From."
	}
	return errs
}

func (h *AdminHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.List(r.Context())
	if err != nil {
		h.fail(w, "AdminHandler.ListSales", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"sales": sales})
}

func (h *AdminHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var form DiscountForm
	if !h.decode(w, r, &form) {
		return
	}
	if errs := form.errors(); len(errs) > 0 {
		h.invalid(w, errs)
		return
	}

	sale := &models.Sale{Discount: form.discount()}
	if err := h.sales.Save(r.Context(), sale, form.ProductIDs, form.CategoryIDs); err != nil {
		h.fail(w, "AdminHandler.CreateSale", err)
		return
	}
	h.renderSale(w, r, http.StatusCreated, sale)
}

// UpdateSale replaces the sale's rule and scope and rewrites the sale prices
// it owns.
func (h *AdminHandler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	var form DiscountForm
	if !h.decode(w, r, &form) {
		return
	}
	if errs := form.errors(); len(errs) > 0 {
		h.invalid(w, errs)
		return
	}

	sale, err := h.sales.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "AdminHandler.UpdateSale", err)
		return
	}
	sale.Discount = form.discount()
	if err := h.sales.Save(r.Context(), sale, form.ProductIDs, form.CategoryIDs); err != nil {
		h.fail(w, "AdminHandler.UpdateSale", err)
		return
	}
	h.renderSale(w, r, http.StatusOK, sale)
}

// renderSale reloads the sale so the response carries its scope.
func (h *AdminHandler) renderSale(w http.ResponseWriter, r *http.Request, status int, sale *models.Sale) {
	saved, err := h.sales.Get(r.Context(), sale.ID)
	if err != nil {
		h.fail(w, "AdminHandler.renderSale", err)
		return
	}
	h.render.JSON(w, status, map[string]interface{}{"sale": saved})
}

func (h *AdminHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.sales.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, "AdminHandler.DeleteSale", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

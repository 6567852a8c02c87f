package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/shopspring/decimal"
)

type DiscountCodeForm struct {
	DiscountForm
	Code         string              `json:"code" validate:"required,max=20"`
	MinPurchase  decimal.NullDecimal `json:"min_purchase"`
	FreeShipping bool                `json:"free_shipping"`
}

func (h *AdminHandler) ListDiscountCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.discounts.List(r.Context())
	if err != nil {
		h.fail(w, "AdminHandler.ListDiscountCodes", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"discount_codes": codes})
}

func (h *AdminHandler) CreateDiscountCode(w http.ResponseWriter, r *http.Request) {
	var form DiscountCodeForm
	if !h.decode(w, r, &form) {
		return
	}
	errs := form.DiscountForm.errors()
	if form.DiscountExact.Valid {
		errs["discount_exact"] = "Discount codes cannot set an exact price."
	}
	if form.MinPurchase.Valid && form.MinPurchase.Decimal.IsNegative() {
		errs["min_purchase"] = "Min Purchase must not be negative."
	}
	if len(errs) > 0 {
		h.invalid(w, errs)
		return
	}

	code := &models.DiscountCode{
		Discount:     form.DiscountForm.discount(),
		Code:         form.Code,
		MinPurchase:  form.MinPurchase,
		FreeShipping: form.FreeShipping,
	}
	if err := h.discounts.Create(r.Context(), code, form.ProductIDs, form.CategoryIDs); err != nil {
		h.fail(w, "AdminHandler.CreateDiscountCode", err)
		return
	}
	h.render.JSON(w, http.StatusCreated, map[string]interface{}{"discount_code": code})
}

package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-cartridge/app/handlers"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

// AdminHandler serves the JSON admin API. Routes are guarded by basic auth
// in the router.
type AdminHandler struct {
	render      *render.Render
	validator   *validator.Validate
	catalog     *services.CatalogService
	sales       *services.SaleService
	discounts   *services.DiscountService
	checkoutSvc *services.CheckoutService
}

func NewAdminHandler(
	render *render.Render,
	validator *validator.Validate,
	catalog *services.CatalogService,
	sales *services.SaleService,
	discounts *services.DiscountService,
	checkoutSvc *services.CheckoutService,
) *AdminHandler {
	return &AdminHandler{
		render:      render,
		validator:   validator,
		catalog:     catalog,
		sales:       sales,
		discounts:   discounts,
		checkoutSvc: checkoutSvc,
	}
}

func (h *AdminHandler) decode(w http.ResponseWriter, r *http.Request, form interface{}) bool {
	return handlers.DecodeAndValidate(h.render, h.validator, w, r, form)
}

func (h *AdminHandler) fail(w http.ResponseWriter, where string, err error) {
	handlers.RespondError(h.render, w, where, err)
}

func (h *AdminHandler) invalid(w http.ResponseWriter, fields map[string]string) {
	h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":  "validation failed",
		"fields": fields,
	})
}

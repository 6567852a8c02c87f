package handlers

import (
	"log"
	"net/http"

	"github.com/Rakhulsr/go-cartridge/app/helpers"
	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/Rakhulsr/go-cartridge/app/utils/format"
	"github.com/Rakhulsr/go-cartridge/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CartHandler struct {
	render   *render.Render
	validate *validator.Validate
	cartSvc  *services.CartService
	store    sessions.SessionStore
	symbol   string
}

func NewCartHandler(render *render.Render, validate *validator.Validate, cartSvc *services.CartService, store sessions.SessionStore, symbol string) *CartHandler {
	return &CartHandler{render: render, validate: validate, cartSvc: cartSvc, store: store, symbol: symbol}
}

type AddCartItemForm struct {
	Sku      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

type UpdateCartItemForm struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type cartView struct {
	*models.Cart
	TotalQuantity     int    `json:"total_quantity"`
	TotalPrice        string `json:"total_price"`
	TotalPriceDisplay string `json:"total_price_display"`
}

func newCartView(cart *models.Cart, symbol string) cartView {
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	total := cart.TotalPrice()
	return cartView{
		Cart:              cart,
		TotalQuantity:     cart.TotalQuantity(),
		TotalPrice:        total.StringFixed(2),
		TotalPriceDisplay: format.Money(total, symbol),
	}
}

func cartIDFrom(r *http.Request) string {
	cartID, _ := r.Context().Value(helpers.ContextKeyCartID).(string)
	return cartID
}

// GetCart shows the session's cart. A visitor without a cart gets an empty
// one that is not stored.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := cartIDFrom(r)
	if cartID == "" {
		h.render.JSON(w, http.StatusOK, map[string]interface{}{"cart": newCartView(&models.Cart{}, h.symbol)})
		return
	}
	cart, err := h.cartSvc.GetCart(r.Context(), cartID)
	if err != nil {
		RespondError(h.render, w, "CartHandler.GetCart", err)
		return
	}
	h.remember(w, r, cart.ID)
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"cart": newCartView(cart, h.symbol)})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var form AddCartItemForm
	if !DecodeAndValidate(h.render, h.validate, w, r, &form) {
		return
	}

	cart, err := h.cartSvc.AddVariation(r.Context(), cartIDFrom(r), form.Sku, form.Quantity)
	if err != nil {
		RespondError(h.render, w, "CartHandler.AddItem", err)
		return
	}
	h.remember(w, r, cart.ID)
	h.render.JSON(w, http.StatusCreated, map[string]interface{}{"cart": newCartView(cart, h.symbol)})
}

// UpdateItem sets a line's quantity. A quantity of zero removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var form UpdateCartItemForm
	if !DecodeAndValidate(h.render, h.validate, w, r, &form) {
		return
	}
	cartID := cartIDFrom(r)
	if cartID == "" {
		RespondError(h.render, w, "CartHandler.UpdateItem", services.ErrCartItemNotFound)
		return
	}

	cart, err := h.cartSvc.UpdateItemQuantity(r.Context(), cartID, mux.Vars(r)["id"], *form.Quantity)
	if err != nil {
		RespondError(h.render, w, "CartHandler.UpdateItem", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"cart": newCartView(cart, h.symbol)})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := cartIDFrom(r)
	if cartID == "" {
		h.render.JSON(w, http.StatusOK, map[string]interface{}{"cart": newCartView(&models.Cart{}, h.symbol)})
		return
	}
	cart, err := h.cartSvc.RemoveItem(r.Context(), cartID, mux.Vars(r)["id"])
	if err != nil {
		RespondError(h.render, w, "CartHandler.RemoveItem", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"cart": newCartView(cart, h.symbol)})
}

func (h *CartHandler) remember(w http.ResponseWriter, r *http.Request, cartID string) {
	if cartIDFrom(r) == cartID {
		return
	}
	if err := h.store.SetCartID(w, r, cartID); err != nil {
		log.Printf("CartHandler: failed to store cart id %s in session: %v", cartID, err)
	}
}

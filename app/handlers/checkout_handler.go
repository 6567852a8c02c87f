package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-cartridge/app/helpers"
	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/Rakhulsr/go-cartridge/app/utils/format"
	"github.com/Rakhulsr/go-cartridge/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

// ReceiptSender mails the receipt of a placed order.
type ReceiptSender interface {
	SendReceipt(order *models.Order, symbol string) error
}

// PaymentStarter opens a payment for a placed order.
type PaymentStarter interface {
	CreateTransaction(ctx context.Context, order *models.Order) (*models.Payment, error)
}

type CheckoutHandler struct {
	render      *render.Render
	validate    *validator.Validate
	cartSvc     *services.CartService
	checkoutSvc *services.CheckoutService
	payments    PaymentStarter
	receipts    ReceiptSender
	store       sessions.SessionStore
	symbol      string
}

// NewCheckoutHandler builds the checkout endpoints. payments and receipts
// may be nil when Midtrans or email are not configured.
func NewCheckoutHandler(
	render *render.Render,
	validate *validator.Validate,
	cartSvc *services.CartService,
	checkoutSvc *services.CheckoutService,
	payments PaymentStarter,
	receipts ReceiptSender,
	store sessions.SessionStore,
	symbol string,
) *CheckoutHandler {
	return &CheckoutHandler{
		render:      render,
		validate:    validate,
		cartSvc:     cartSvc,
		checkoutSvc: checkoutSvc,
		payments:    payments,
		receipts:    receipts,
		store:       store,
		symbol:      symbol,
	}
}

type ShippingForm struct {
	ShippingType string `json:"shipping_type" validate:"required"`
}

type DiscountForm struct {
	Code string `json:"code" validate:"required,max=20"`
}

type CheckoutForm struct {
	BillingDetailFirstName string `json:"billing_detail_first_name" validate:"required,max=100"`
	BillingDetailLastName  string `json:"billing_detail_last_name" validate:"required,max=100"`
	BillingDetailStreet    string `json:"billing_detail_street" validate:"required,max=100"`
	BillingDetailCity      string `json:"billing_detail_city" validate:"required,max=100"`
	BillingDetailState     string `json:"billing_detail_state" validate:"required,max=100"`
	BillingDetailPostcode  string `json:"billing_detail_postcode" validate:"required,max=10"`
	BillingDetailCountry   string `json:"billing_detail_country" validate:"required,max=100"`
	BillingDetailPhone     string `json:"billing_detail_phone" validate:"required,max=20"`
	BillingDetailEmail     string `json:"billing_detail_email" validate:"required,email,max=100"`

	SameBillingShipping bool `json:"same_billing_shipping"`

	ShippingDetailFirstName string `json:"shipping_detail_first_name" validate:"required_without=SameBillingShipping,max=100"`
	ShippingDetailLastName  string `json:"shipping_detail_last_name" validate:"required_without=SameBillingShipping,max=100"`
	ShippingDetailStreet    string `json:"shipping_detail_street" validate:"required_without=SameBillingShipping,max=100"`
	ShippingDetailCity      string `json:"shipping_detail_city" validate:"required_without=SameBillingShipping,max=100"`
	ShippingDetailState     string `json:"shipping_detail_state" validate:"max=100"`
	ShippingDetailPostcode  string `json:"shipping_detail_postcode" validate:"required_without=SameBillingShipping,max=10"`
	ShippingDetailCountry   string `json:"shipping_detail_country" validate:"required_without=SameBillingShipping,max=100"`
	ShippingDetailPhone     string `json:"shipping_detail_phone" validate:"max=20"`

	AdditionalInstructions string `json:"additional_instructions"`
}

func (f *CheckoutForm) order() *models.Order {
	if f.SameBillingShipping {
		f.ShippingDetailFirstName = f.BillingDetailFirstName
		f.ShippingDetailLastName = f.BillingDetailLastName
		f.ShippingDetailStreet = f.BillingDetailStreet
		f.ShippingDetailCity = f.BillingDetailCity
		f.ShippingDetailState = f.BillingDetailState
		f.ShippingDetailPostcode = f.BillingDetailPostcode
		f.ShippingDetailCountry = f.BillingDetailCountry
		f.ShippingDetailPhone = f.BillingDetailPhone
	}
	return &models.Order{
		BillingDetailFirstName:  f.BillingDetailFirstName,
		BillingDetailLastName:   f.BillingDetailLastName,
		BillingDetailStreet:     f.BillingDetailStreet,
		BillingDetailCity:       f.BillingDetailCity,
		BillingDetailState:      f.BillingDetailState,
		BillingDetailPostcode:   f.BillingDetailPostcode,
		BillingDetailCountry:    f.BillingDetailCountry,
		BillingDetailPhone:      f.BillingDetailPhone,
		BillingDetailEmail:      f.BillingDetailEmail,
		ShippingDetailFirstName: f.ShippingDetailFirstName,
		ShippingDetailLastName:  f.ShippingDetailLastName,
		ShippingDetailStreet:    f.ShippingDetailStreet,
		ShippingDetailCity:      f.ShippingDetailCity,
		ShippingDetailState:     f.ShippingDetailState,
		ShippingDetailPostcode:  f.ShippingDetailPostcode,
		ShippingDetailCountry:   f.ShippingDetailCountry,
		ShippingDetailPhone:     f.ShippingDetailPhone,
		AdditionalInstructions:  f.AdditionalInstructions,
	}
}

func (h *CheckoutHandler) stage(r *http.Request) services.CheckoutStage {
	var stage services.CheckoutStage
	if err := h.store.GetCheckout(r, &stage); err != nil {
		log.Printf("CheckoutHandler: discarding unreadable checkout stage: %v", err)
		return services.CheckoutStage{}
	}
	return stage
}

func (h *CheckoutHandler) saveStage(w http.ResponseWriter, r *http.Request, stage services.CheckoutStage) bool {
	if err := h.store.SetCheckout(w, r, stage); err != nil {
		log.Printf("CheckoutHandler: failed to save checkout stage: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "failed to save checkout"})
		return false
	}
	return true
}

func (h *CheckoutHandler) stageView(stage services.CheckoutStage) map[string]interface{} {
	return map[string]interface{}{
		"shipping_type":          stage.ShippingType,
		"shipping_total":         stage.ShippingTotal,
		"shipping_total_display": format.NullMoney(stage.ShippingTotal, h.symbol),
		"discount_code":          stage.DiscountCode,
		"discount_total":         stage.DiscountTotal,
		"discount_total_display": format.NullMoney(stage.DiscountTotal, h.symbol),
	}
}

func (h *CheckoutHandler) StageShipping(w http.ResponseWriter, r *http.Request) {
	var form ShippingForm
	if !DecodeAndValidate(h.render, h.validate, w, r, &form) {
		return
	}
	stage := h.stage(r)
	if err := h.checkoutSvc.StageShipping(&stage, form.ShippingType); err != nil {
		RespondError(h.render, w, "CheckoutHandler.StageShipping", err)
		return
	}
	if !h.saveStage(w, r, stage) {
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"checkout": h.stageView(stage)})
}

func (h *CheckoutHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var form DiscountForm
	if !DecodeAndValidate(h.render, h.validate, w, r, &form) {
		return
	}
	cartID := cartIDFrom(r)
	if cartID == "" {
		RespondError(h.render, w, "CheckoutHandler.ApplyDiscount", services.ErrEmptyCart)
		return
	}
	cart, err := h.cartSvc.GetCart(r.Context(), cartID)
	if err != nil {
		RespondError(h.render, w, "CheckoutHandler.ApplyDiscount", err)
		return
	}

	stage := h.stage(r)
	if err := h.checkoutSvc.ApplyDiscountCode(r.Context(), &stage, cart, form.Code); err != nil {
		RespondError(h.render, w, "CheckoutHandler.ApplyDiscount", err)
		return
	}
	if !h.saveStage(w, r, stage) {
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"checkout": h.stageView(stage)})
}

// Process places the order for the session's cart. Payment and receipt
// failures are logged; the order stands regardless.
func (h *CheckoutHandler) Process(w http.ResponseWriter, r *http.Request) {
	var form CheckoutForm
	if !DecodeAndValidate(h.render, h.validate, w, r, &form) {
		return
	}
	cartID := cartIDFrom(r)
	if cartID == "" {
		RespondError(h.render, w, "CheckoutHandler.Process", services.ErrEmptyCart)
		return
	}
	sessionKey, _ := r.Context().Value(helpers.ContextKeySessionKey).(string)

	order, err := h.checkoutSvc.Process(r.Context(), form.order(), services.ProcessInput{
		CartID:     cartID,
		Stage:      h.stage(r),
		SessionKey: sessionKey,
	})
	if err != nil {
		RespondError(h.render, w, "CheckoutHandler.Process", err)
		return
	}

	if err := h.store.ClearCheckout(w, r); err != nil {
		log.Printf("CheckoutHandler.Process: failed to clear checkout stage: %v", err)
	}
	if err := h.store.ClearCartID(w, r); err != nil {
		log.Printf("CheckoutHandler.Process: failed to clear cart id: %v", err)
	}

	response := map[string]interface{}{
		"order":         order,
		"total_display": format.Money(order.Total, h.symbol),
	}
	if h.payments != nil {
		payment, err := h.payments.CreateTransaction(r.Context(), order)
		if err != nil {
			log.Printf("CheckoutHandler.Process: payment for order %s not started: %v", order.ID, err)
		} else {
			response["payment"] = payment
		}
	}
	if h.receipts != nil {
		if err := h.receipts.SendReceipt(order, h.symbol); err != nil {
			log.Printf("CheckoutHandler.Process: receipt for order %s not sent: %v", order.ID, err)
		}
	}

	h.render.JSON(w, http.StatusCreated, response)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Rakhulsr/go-cartridge/app/helpers"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/Rakhulsr/go-cartridge/app/utils/format"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	render      *render.Render
	checkoutSvc *services.CheckoutService
	paymentSvc  *services.PaymentService
	symbol      string
}

func NewOrderHandler(render *render.Render, checkoutSvc *services.CheckoutService, paymentSvc *services.PaymentService, symbol string) *OrderHandler {
	return &OrderHandler{render: render, checkoutSvc: checkoutSvc, paymentSvc: paymentSvc, symbol: symbol}
}

// GetOrder shows an order to the session that placed it. Other sessions
// get a 404.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkoutSvc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		RespondError(h.render, w, "OrderHandler.GetOrder", err)
		return
	}
	sessionKey, _ := r.Context().Value(helpers.ContextKeySessionKey).(string)
	if order.Key == "" || order.Key != sessionKey {
		RespondError(h.render, w, "OrderHandler.GetOrder", services.ErrOrderNotFound)
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"order":            order,
		"status_name":      order.StatusName(),
		"total_display":    format.Money(order.Total, h.symbol),
		"billing_name":     order.BillingName(),
		"item_count":       len(order.Items),
		"shipping_display": format.NullMoney(order.ShippingTotal, h.symbol),
	})
}

// PaymentNotification receives Midtrans status callbacks.
func (h *OrderHandler) PaymentNotification(w http.ResponseWriter, r *http.Request) {
	if h.paymentSvc == nil {
		h.render.JSON(w, http.StatusNotFound, map[string]interface{}{"error": "payments are not configured"})
		return
	}
	var payload services.MidtransNotificationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid JSON body"})
		return
	}

	status, err := h.paymentSvc.HandleNotification(r.Context(), payload)
	if err != nil {
		RespondError(h.render, w, "OrderHandler.PaymentNotification", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"order_id": payload.OrderID, "status": status})
}

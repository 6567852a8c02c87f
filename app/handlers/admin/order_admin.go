package admin

import (
	"net/http"

	"github.com/gorilla/mux"
)

type OrderStatusForm struct {
	Status int `json:"status" validate:"required,oneof=1 2 3 4 5"`
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkoutSvc.ListOrders(r.Context())
	if err != nil {
		h.fail(w, "AdminHandler.ListOrders", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkoutSvc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "AdminHandler.GetOrder", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"order": order, "status_name": order.StatusName()})
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var form OrderStatusForm
	if !h.decode(w, r, &form) {
		return
	}
	order, err := h.checkoutSvc.UpdateStatus(r.Context(), mux.Vars(r)["id"], form.Status)
	if err != nil {
		h.fail(w, "AdminHandler.UpdateOrderStatus", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"order": order, "status_name": order.StatusName()})
}

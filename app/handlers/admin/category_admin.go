package admin

import (
	"net/http"

	"github.com/gorilla/mux"
)

type CategoryForm struct {
	Title    string  `json:"title" validate:"required,max=100"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
	Active   *bool   `json:"active"`
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.fail(w, "AdminHandler.ListCategories", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// CreateCategory adds a category. Categories are active unless the form
// says otherwise.
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var form CategoryForm
	if !h.decode(w, r, &form) {
		return
	}
	active := form.Active == nil || *form.Active

	category, err := h.catalog.CreateCategory(r.Context(), form.Title, form.ParentID, active)
	if err != nil {
		h.fail(w, "AdminHandler.CreateCategory", err)
		return
	}
	h.render.JSON(w, http.StatusCreated, map[string]interface{}{"category": category})
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, "AdminHandler.DeleteCategory", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package admin

import (
	"net/http"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type PriceForm struct {
	UnitPrice decimal.NullDecimal `json:"unit_price"`
	SalePrice decimal.NullDecimal `json:"sale_price"`
	SaleFrom  *time.Time          `json:"sale_from"`
	SaleTo    *time.Time          `json:"sale_to"`
}

func (f PriceForm) priced() models.Priced {
	return models.Priced{
		UnitPrice: f.UnitPrice,
		SalePrice: f.SalePrice,
		SaleFrom:  f.SaleFrom,
		SaleTo:    f.SaleTo,
	}
}

func (f PriceForm) errors() map[string]string {
	errs := make(map[string]string)
	if f.UnitPrice.Valid && f.UnitPrice.Decimal.IsNegative() {
		errs["unit_price"] = "Unit Price must not be negative."
	}
	if f.SalePrice.Valid && f.SalePrice.Decimal.IsNegative() {
		errs["sale_price"] = "Sale Price must not be negative."
	}
	if f.SaleFrom != nil && f.SaleTo != nil && f.SaleTo.Before(*f.SaleFrom) {
		errs["sale_to"] = "Sale To must not be before Sale From."
	}
	return errs
}

type ImageForm struct {
	File        string `json:"file" validate:"required,max=255"`
	Description string `json:"description" validate:"max=100"`
}

type ProductForm struct {
	Title       string `json:"title" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"max=255"`
	Description string `json:"description"`
	Keywords    string `json:"keywords" validate:"max=200"`
	Active      bool   `json:"active"`
	Available   bool   `json:"available"`
	PriceForm
	CategoryIDs []string    `json:"category_ids" validate:"dive,uuid"`
	Images      []ImageForm `json:"images" validate:"dive"`
}

type OptionValueForm struct {
	Type string `json:"type" validate:"required,max=50"`
	Name string `json:"name" validate:"required,max=100"`
}

type VariationForm struct {
	Sku        string                   `json:"sku" validate:"max=100"`
	Options    []models.OptionSelection `json:"options"`
	NumInStock *int                     `json:"num_in_stock" validate:"omitempty,gte=0"`
	Default    bool                     `json:"default"`
	PriceForm
}

type GenerateVariationsForm struct {
	Options map[string][]string `json:"options" validate:"required,min=1"`
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if !h.decode(w, r, &form) {
		return
	}
	if errs := form.PriceForm.errors(); len(errs) > 0 {
		h.invalid(w, errs)
		return
	}

	product := &models.Product{
		Title:       form.Title,
		Slug:        form.Slug,
		Description: form.Description,
		Keywords:    form.Keywords,
		Active:      form.Active,
		Available:   form.Available,
		Priced:      form.PriceForm.priced(),
	}
	for _, img := range form.Images {
		product.Images = append(product.Images, models.ProductImage{File: img.File, Description: img.Description})
	}

	if err := h.catalog.CreateProduct(r.Context(), product, form.CategoryIDs); err != nil {
		h.fail(w, "AdminHandler.CreateProduct", err)
		return
	}
	h.render.JSON(w, http.StatusCreated, map[string]interface{}{"product": product})
}

func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProductByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "AdminHandler.GetProduct", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

func (h *AdminHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var form ImageForm
	if !h.decode(w, r, &form) {
		return
	}
	image, err := h.catalog.AddImage(r.Context(), mux.Vars(r)["id"], form.File, form.Description)
	if err != nil {
		h.fail(w, "AdminHandler.AddImage", err)
		return
	}
	h.render.JSON(w, http.StatusCreated, map[string]interface{}{"image": image})
}

func (h *AdminHandler) ListOptionValues(w http.ResponseWriter, r *http.Request) {
	optionType := r.URL.Query().Get("type")
	result := make(map[string][]models.ProductOption)
	for _, t := range h.catalog.OptionTypes() {
		if optionType != "" && t != optionType {
			continue
		}
		values, err := h.catalog.ListOptionValues(r.Context(), t)
		if err != nil {
			h.fail(w, "AdminHandler.ListOptionValues", err)
			return
		}
		result[t] = values
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"options": result})
}

func (h *AdminHandler) AddOptionValue(w http.ResponseWriter, r *http.Request) {
	var form OptionValueForm
	if !h.decode(w, r, &form) {
		return
	}
	option, err := h.catalog.AddOptionValue(r.Context(), form.Type, form.Name)
	if err != nil {
		h.fail(w, "AdminHandler.AddOptionValue", err)
		return
	}
	h.render.JSON(w, http.StatusCreated, map[string]interface{}{"option": option})
}

func (h *AdminHandler) CreateVariation(w http.ResponseWriter, r *http.Request) {
	var form VariationForm
	if !h.decode(w, r, &form) {
		return
	}
	if errs := form.PriceForm.errors(); len(errs) > 0 {
		h.invalid(w, errs)
		return
	}

	productID := mux.Vars(r)["id"]
	variation := &models.ProductVariation{
		ProductID:  productID,
		Sku:        form.Sku,
		Options:    form.Options,
		NumInStock: form.NumInStock,
		Priced:     form.PriceForm.priced(),
	}
	if err := h.catalog.CreateVariation(r.Context(), variation); err != nil {
		h.fail(w, "AdminHandler.CreateVariation", err)
		return
	}
	if form.Default {
		if err := h.catalog.SetDefaultVariation(r.Context(), productID, variation.ID); err != nil {
			h.fail(w, "AdminHandler.CreateVariation", err)
			return
		}
		variation.Default = true
	}
	h.render.JSON(w, http.StatusCreated, map[string]interface{}{"variation": variation})
}

// UpdateVariation replaces a variation's SKU, options, stock and prices.
// The default flag is changed through SetDefaultVariation only.
func (h *AdminHandler) UpdateVariation(w http.ResponseWriter, r *http.Request) {
	var form VariationForm
	if !h.decode(w, r, &form) {
		return
	}
	if errs := form.PriceForm.errors(); len(errs) > 0 {
		h.invalid(w, errs)
		return
	}

	vars := mux.Vars(r)
	product, err := h.catalog.GetProductByID(r.Context(), vars["id"])
	if err != nil {
		h.fail(w, "AdminHandler.UpdateVariation", err)
		return
	}
	var current *models.ProductVariation
	for i := range product.Variations {
		if product.Variations[i].ID == vars["variationID"] {
			current = &product.Variations[i]
		}
	}
	if current == nil {
		h.fail(w, "AdminHandler.UpdateVariation", services.ErrVariationNotFound)
		return
	}

	variation := &models.ProductVariation{
		ID:         current.ID,
		ProductID:  current.ProductID,
		Sku:        form.Sku,
		Options:    form.Options,
		NumInStock: form.NumInStock,
		Default:    current.Default,
		ImageID:    current.ImageID,
		Priced:     form.PriceForm.priced(),
	}
	if err := h.catalog.UpdateVariation(r.Context(), variation); err != nil {
		h.fail(w, "AdminHandler.UpdateVariation", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"variation": variation})
}

func (h *AdminHandler) GenerateVariations(w http.ResponseWriter, r *http.Request) {
	var form GenerateVariationsForm
	if !h.decode(w, r, &form) {
		return
	}
	created, err := h.catalog.CreateVariationsFromOptions(r.Context(), mux.Vars(r)["id"], form.Options)
	if err != nil {
		h.fail(w, "AdminHandler.GenerateVariations", err)
		return
	}
	if created == nil {
		created = []models.ProductVariation{}
	}
	h.render.JSON(w, http.StatusCreated, map[string]interface{}{"variations": created})
}

func (h *AdminHandler) SetDefaultVariation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.catalog.SetDefaultVariation(r.Context(), vars["id"], vars["variationID"]); err != nil {
		h.fail(w, "AdminHandler.SetDefaultVariation", err)
		return
	}
	product, err := h.catalog.GetProductByID(r.Context(), vars["id"])
	if err != nil {
		h.fail(w, "AdminHandler.SetDefaultVariation", err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

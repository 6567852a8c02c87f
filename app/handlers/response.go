package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Rakhulsr/go-cartridge/app/helpers"
	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var notFoundErrors = []error{
	repositories.ErrNotFound,
	services.ErrCategoryNotFound,
	services.ErrProductNotFound,
	services.ErrVariationNotFound,
	services.ErrOrderNotFound,
	services.ErrSaleNotFound,
	services.ErrCartItemNotFound,
}

var conflictErrors = []error{
	services.ErrInsufficientStock,
	services.ErrDuplicateCombination,
	services.ErrDuplicateDiscountCode,
	services.ErrInvalidStatusTransition,
	services.ErrNoDefaultVariation,
	services.ErrProductUnavailable,
	repositories.ErrDuplicateSku,
	repositories.ErrDuplicateDefault,
}

var unprocessableErrors = []error{
	services.ErrEmptyCart,
	services.ErrInvalidQuantity,
	services.ErrInvalidOptions,
	services.ErrDiscountCodeInvalid,
	services.ErrUnknownShippingType,
	models.ErrUnknownOptionType,
}

// StatusForError maps a service or repository error to the HTTP status it is
// reported with.
func StatusForError(err error) int {
	switch {
	case errorIn(err, notFoundErrors):
		return http.StatusNotFound
	case errorIn(err, conflictErrors):
		return http.StatusConflict
	case errorIn(err, unprocessableErrors):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidSignature):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func errorIn(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// RespondError renders err as {"error": ...}. Internal errors are logged and
// hidden from the client.
func RespondError(rnd *render.Render, w http.ResponseWriter, where string, err error) {
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", where, err)
		message = "internal server error"
	}
	rnd.JSON(w, status, map[string]interface{}{"error": message})
}

// DecodeAndValidate reads a JSON body into form and runs the validator on it.
// It writes the error response itself and reports whether the handler may go on.
func DecodeAndValidate(rnd *render.Render, validate *validator.Validate, w http.ResponseWriter, r *http.Request, form interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(form); err != nil {
		rnd.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid JSON body"})
		return false
	}
	if err := validate.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			rnd.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "validation failed",
				"fields": helpers.FormatValidationErrors(validationErrors),
			})
			return false
		}
		rnd.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return false
	}
	return true
}

// Pagination reads limit and offset from the query string.
func Pagination(r *http.Request) (int, int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

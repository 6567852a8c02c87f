package services

import "errors"

var (
	ErrInsufficientStock       = errors.New("insufficient product stock")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrInvalidOptions          = errors.New("invalid variation options")
	ErrDuplicateCombination    = errors.New("a variation with these options already exists")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrDiscountCodeInvalid     = errors.New("discount code is not valid for this cart")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrVariationNotFound       = errors.New("variation not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrSaleNotFound            = errors.New("sale not found")
	ErrCartItemNotFound        = errors.New("cart item not found")
	ErrUnknownShippingType     = errors.New("unknown shipping type")
	ErrNoDefaultVariation      = errors.New("product has no default variation")
	ErrProductUnavailable      = errors.New("product is not available for purchase")
)

var ErrDuplicateDiscountCode = errors.New("discount code already exists")

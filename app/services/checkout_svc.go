package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const FreeShippingType = "Free shipping"

// CheckoutStage holds the checkout values chosen before the order exists.
// It is kept in the session between checkout steps.
type CheckoutStage struct {
	ShippingType  string              `json:"shipping_type"`
	ShippingTotal decimal.NullDecimal `json:"shipping_total"`
	DiscountCode  string              `json:"discount_code"`
	DiscountTotal decimal.NullDecimal `json:"discount_total"`
}

type ProcessInput struct {
	CartID     string
	Stage      CheckoutStage
	SessionKey string
	UserID     *string
}

type CheckoutService struct {
	db            *gorm.DB
	cartRepo      repositories.CartRepository
	variationRepo repositories.VariationRepository
	orderRepo     repositories.OrderRepository
	discounts     *DiscountService
	actions       ActionRecorder
	shippingRates map[string]decimal.Decimal
	now           func() time.Time
}

func NewCheckoutService(
	db *gorm.DB,
	cartRepo repositories.CartRepository,
	variationRepo repositories.VariationRepository,
	orderRepo repositories.OrderRepository,
	discounts *DiscountService,
	actions ActionRecorder,
	shippingRates map[string]decimal.Decimal,
) *CheckoutService {
	if actions == nil {
		actions = noopActionRecorder{}
	}
	return &CheckoutService{
		db:            db,
		cartRepo:      cartRepo,
		variationRepo: variationRepo,
		orderRepo:     orderRepo,
		discounts:     discounts,
		actions:       actions,
		shippingRates: shippingRates,
		now:           time.Now,
	}
}

// StageShipping records the shipping type and its rate. A staged free
// shipping discount is kept.
func (s *CheckoutService) StageShipping(stage *CheckoutStage, shippingType string) error {
	if stage.ShippingType == FreeShippingType {
		return nil
	}
	rate, ok := s.shippingRates[shippingType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownShippingType, shippingType)
	}
	stage.ShippingType = shippingType
	stage.ShippingTotal = decimal.NewNullDecimal(rate)
	return nil
}

// ApplyDiscountCode validates code against cart and stages its discount.
func (s *CheckoutService) ApplyDiscountCode(ctx context.Context, stage *CheckoutStage, cart *models.Cart, code string) error {
	return s.applyDiscountCode(ctx, nil, stage, cart, code)
}

func (s *CheckoutService) applyDiscountCode(ctx context.Context, tx *gorm.DB, stage *CheckoutStage, cart *models.Cart, code string) error {
	dc, err := s.discounts.getValid(ctx, tx, code, cart, s.now())
	if err != nil {
		return err
	}
	if dc == nil {
		return ErrDiscountCodeInvalid
	}

	stage.DiscountCode = dc.Code
	stage.DiscountTotal = decimal.NewNullDecimal(dc.Calculate(cart.TotalPrice()))
	if dc.FreeShipping {
		stage.ShippingType = FreeShippingType
		stage.ShippingTotal = decimal.NewNullDecimal(decimal.Zero)
	}
	return nil
}

// Process turns the cart into an order. The staged discount is checked
// against the cart read inside the transaction, and stock of every tracked
// variation is taken in the same transaction, so either the whole order is
// placed or nothing changes.
func (s *CheckoutService) Process(ctx context.Context, order *models.Order, in ProcessInput) (*models.Order, error) {
	order.ID = ""
	order.Status = models.OrderStatusUnprocessed
	order.Key = in.SessionKey
	order.UserID = in.UserID
	order.Items = nil

	var purchased []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetCartWithItems(ctx, tx, in.CartID)
		if err != nil {
			return fmt.Errorf("failed to get cart with items: %w", err)
		}
		if cart == nil || !cart.HasItems() {
			return ErrEmptyCart
		}

		stage := in.Stage
		if stage.DiscountCode != "" {
			if err := s.applyDiscountCode(ctx, tx, &stage, cart, stage.DiscountCode); err != nil {
				return err
			}
		}
		order.ShippingType = stage.ShippingType
		order.ShippingTotal = stage.ShippingTotal
		order.DiscountCode = stage.DiscountCode
		order.DiscountTotal = stage.DiscountTotal
		order.ItemTotal = cart.TotalPrice()

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			variation, err := s.variationRepo.GetBySku(ctx, tx, item.Sku)
			if err != nil {
				return fmt.Errorf("failed to get variation %s: %w", item.Sku, err)
			}
			if variation != nil {
				if variation.IsStockTracked() {
					ok, err := s.variationRepo.DecrementStock(ctx, tx, variation.ID, item.Quantity)
					if err != nil {
						return fmt.Errorf("failed to decrement stock of %s: %w", item.Sku, err)
					}
					if !ok {
						return fmt.Errorf("%w: %s", ErrInsufficientStock, item.Sku)
					}
				}
				purchased = append(purchased, variation.ProductID)
			}
			items = append(items, models.NewOrderItemFromCart(order.ID, item))
		}

		if err := s.orderRepo.BulkCreateItems(ctx, tx, items); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		order.Items = items
		return s.cartRepo.Delete(ctx, tx, cart.ID)
	})
	if err != nil {
		log.Printf("CheckoutService.Process: cart %s: %v", in.CartID, err)
		return nil, err
	}

	for _, productID := range purchased {
		s.actions.Purchased(ctx, productID)
	}
	log.Printf("CheckoutService.Process: order %s placed for %s", order.ID, order.Total.StringFixed(2))
	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAllOrders(ctx)
}

// UpdateStatus moves an order to status when the transition is allowed.
func (s *CheckoutService) UpdateStatus(ctx context.Context, orderID string, status int) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionOrderStatus(order.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, order.StatusName(), models.OrderStatusNames[status])
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status
	return order, nil
}

package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
)

type CartService struct {
	cartRepo repositories.CartRepository
	catalog  *CatalogService
	actions  ActionRecorder
	now      func() time.Time
}

func NewCartService(cartRepo repositories.CartRepository, catalog *CatalogService, actions ActionRecorder) *CartService {
	if actions == nil {
		actions = noopActionRecorder{}
	}
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
		actions:  actions,
		now:      time.Now,
	}
}

// GetCart loads the cart with its items, creating it when cartID is unknown
// or empty.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}
	return cart, nil
}

// AddVariation puts quantity of the variation with the given SKU into the
// cart after checking that it is for sale and in stock.
func (s *CartService) AddVariation(ctx context.Context, cartID, sku string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	variation, err := s.catalog.GetVariationBySku(ctx, sku)
	if err != nil {
		return nil, err
	}
	if variation.Product == nil || !variation.Product.Active || !variation.HasPrice(s.now()) {
		return nil, ErrVariationNotFound
	}
	if !variation.Product.Available {
		return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, variation.Product.Title)
	}

	ok, err := s.catalog.HasStock(ctx, variation, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, variation.Sku)
	}
	return s.AddItem(ctx, cartID, variation, quantity)
}

// AddItem increases the quantity of the line for variation's SKU, creating
// the line with a snapshot of the variation when the cart has none.
func (s *CartService) AddItem(ctx context.Context, cartID string, variation *models.ProductVariation, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItemBySku(ctx, cart.ID, variation.Sku)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing cart item: %w", err)
	}
	if item == nil {
		item = &models.CartItem{
			CartID: cart.ID,
			SelectedProduct: models.SelectedProduct{
				Sku:         variation.Sku,
				Description: variation.String(),
				UnitPrice:   variation.Price(s.now()),
			},
		}
		if variation.Product != nil {
			item.URL = variation.Product.URL()
		}
		if variation.Image != nil {
			item.Image = variation.Image.File
		}
		s.actions.AddedToCart(ctx, variation.ProductID)
	}
	item.Quantity += quantity

	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		log.Printf("CartService.AddItem: failed to save item %s in cart %s: %v", variation.Sku, cart.ID, err)
		return nil, fmt.Errorf("failed to save cart item: %w", err)
	}
	if err := s.cartRepo.Touch(ctx, cart.ID); err != nil {
		log.Printf("CartService.AddItem: failed to touch cart %s: %v", cart.ID, err)
	}
	if memo := StockMemoFrom(ctx); memo != nil {
		memo.Forget(variation.Sku)
	}

	return s.reload(ctx, cart.ID)
}

// UpdateItemQuantity sets a line's quantity. Zero or less removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, itemID)
	}

	item, err := s.cartRepo.GetItem(ctx, cartID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	if extra := quantity - item.Quantity; extra > 0 {
		variation, err := s.catalog.GetVariationBySku(ctx, item.Sku)
		if err != nil {
			return nil, err
		}
		ok, err := s.catalog.HasStock(ctx, variation, extra)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, item.Sku)
		}
	}

	item.Quantity = quantity
	if err := s.cartRepo.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if err := s.cartRepo.Touch(ctx, cartID); err != nil {
		log.Printf("CartService.UpdateItemQuantity: failed to touch cart %s: %v", cartID, err)
	}
	return s.reload(ctx, cartID)
}

// RemoveItem deletes a line from the cart. Removing a missing line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID string) (*models.Cart, error) {
	if _, err := s.cartRepo.DeleteItem(ctx, cartID, itemID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.GetCart(ctx, cartID)
}

// PruneCarts deletes carts that have not been touched since before.
func (s *CartService) PruneCarts(ctx context.Context, before time.Time) (int64, error) {
	deleted, err := s.cartRepo.DeleteUpdatedBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune carts: %w", err)
	}
	log.Printf("CartService.PruneCarts: deleted %d carts untouched since %s", deleted, before.Format(time.RFC3339))
	return deleted, nil
}

func (s *CartService) reload(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCartWithItems(ctx, nil, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated cart: %w", err)
	}
	if cart == nil {
		return nil, repositories.ErrNotFound
	}
	return cart, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"bakery-service/cart"
	"bakery-service/database"
	"bakery-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartItemView is one cart line as returned to the storefront.
type CartItemView struct {
	Product         cart.ProductSnapshot `json:"product"`
	Quantity        int                  `json:"quantity"`
	Subtotal        int64                `json:"subtotal"`
	DisplaySubtotal string               `json:"display_subtotal"`
}

// CartView is the storefront representation of a session cart.
type CartView struct {
	Items        []CartItemView `json:"items"`
	TotalItems   int            `json:"total_items"`
	TotalPrice   int64          `json:"total_price"`
	DisplayTotal string         `json:"display_total"`
}

func NewCartView(c *cart.Cart) CartView {
	lines := c.Lines()
	items := make([]CartItemView, 0, len(lines))
	for _, l := range lines {
		items = append(items, CartItemView{
			Product:         l.Product,
			Quantity:        l.Quantity,
			Subtotal:        l.Subtotal(),
			DisplaySubtotal: models.FormatPrice(l.Subtotal()),
		})
	}
	return CartView{
		Items:        items,
		TotalItems:   c.TotalItemCount(),
		TotalPrice:   c.TotalPrice(),
		DisplayTotal: models.FormatPrice(c.TotalPrice()),
	}
}

// CartService applies storefront actions to a session's cart.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, *ServiceError)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.Cart, *ServiceError)
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cart.Cart, *ServiceError)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.Cart, *ServiceError)
	Clear(ctx context.Context, sessionID string) (*cart.Cart, *ServiceError)
}

const (
	cartLockAttempts   = 5
	cartLockRetryDelay = 40 * time.Millisecond
)

type cartServiceImpl struct {
	store   database.CartStore
	catalog CatalogService
	logger  *zap.Logger
}

func NewCartService(store database.CartStore, catalog CatalogService, logger *zap.Logger) CartService {
	return &cartServiceImpl{store: store, catalog: catalog, logger: logger}
}

func (s *cartServiceImpl) Get(ctx context.Context, sessionID string) (*cart.Cart, *ServiceError) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err), zap.String("session_id", sessionID))
		return nil, transientError("Failed to load cart", err)
	}
	return c, nil
}

// AddItem snapshots the product as currently listed; later catalog edits do
// not reach lines already in the cart.
func (s *cartServiceImpl) AddItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.Cart, *ServiceError) {
	p, svcErr := s.catalog.GetAvailableProduct(ctx, productID)
	if svcErr != nil {
		return nil, svcErr
	}
	snap := cart.SnapshotOf(*p)
	return s.mutate(ctx, sessionID, func(c *cart.Cart) { c.AddItem(snap) })
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cart.Cart, *ServiceError) {
	if quantity > cart.MaxLineQuantity {
		return nil, validationError(fmt.Sprintf("quantity must be at most %d", cart.MaxLineQuantity), nil)
	}
	return s.mutate(ctx, sessionID, func(c *cart.Cart) { c.SetQuantity(productID, quantity) })
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.Cart, *ServiceError) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) { c.RemoveItem(productID) })
}

func (s *cartServiceImpl) Clear(ctx context.Context, sessionID string) (*cart.Cart, *ServiceError) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) { c.Clear() })
}

// mutate loads the cart, applies fn and saves only when the cart reported a
// change. It holds the session lock throughout so an edit cannot interleave
// with a checkout of the same cart.
func (s *cartServiceImpl) mutate(ctx context.Context, sessionID string, fn func(*cart.Cart)) (*cart.Cart, *ServiceError) {
	token, svcErr := s.lock(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}
	defer func() {
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.store.ReleaseCheckoutLock(relCtx, sessionID, token); err != nil {
			s.logger.Warn("Failed to release cart lock", zap.Error(err), zap.String("session_id", sessionID))
		}
	}()

	c, svcErr := s.Get(ctx, sessionID)
	if svcErr != nil {
		return nil, svcErr
	}

	changed := false
	unsubscribe := c.Subscribe(func(cart.Event) { changed = true })
	fn(c)
	unsubscribe()

	if !changed {
		return c, nil
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		s.logger.Error("Failed to save cart", zap.Error(err), zap.String("session_id", sessionID))
		return nil, transientError("Failed to save cart", err)
	}
	return c, nil
}

// lock takes the session lock, retrying briefly so back-to-back edits queue
// up. A lock still held after the retries belongs to a checkout.
func (s *cartServiceImpl) lock(ctx context.Context, sessionID string) (string, *ServiceError) {
	for attempt := 1; ; attempt++ {
		token, ok, err := s.store.AcquireCheckoutLock(ctx, sessionID)
		if err != nil {
			s.logger.Error("Failed to lock cart", zap.Error(err), zap.String("session_id", sessionID))
			return "", transientError("Failed to update cart", err)
		}
		if ok {
			return token, nil
		}
		if attempt == cartLockAttempts {
			return "", conflictError("Your cart is being checked out. Please try again.")
		}
		select {
		case <-ctx.Done():
			return "", transientError("Failed to update cart", ctx.Err())
		case <-time.After(cartLockRetryDelay):
		}
	}
}

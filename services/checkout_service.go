package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery-service/cart"
	"bakery-service/database"
	"bakery-service/models"
	awspkg "bakery-service/pkg/aws"
	"bakery-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutOutcome string

const (
	// CheckoutPlaced means both writes succeeded and the cart was cleared.
	CheckoutPlaced CheckoutOutcome = "placed"
	// CheckoutReplayed means an earlier order for the same idempotency key
	// was returned and nothing was written.
	CheckoutReplayed CheckoutOutcome = "replayed"
)

type CheckoutResult struct {
	Outcome CheckoutOutcome
	Order   *models.Order
}

type CheckoutService interface {
	// Checkout turns a non-empty cart into an order and its line items. On
	// success the cart is cleared; on any failure it is left untouched.
	Checkout(ctx context.Context, c *cart.Cart, req *models.CheckoutRequest) (*CheckoutResult, *ServiceError)

	// SubmitSessionCheckout runs Checkout against a session's stored cart
	// under a per-session lock, honouring an optional idempotency key.
	SubmitSessionCheckout(ctx context.Context, sessionID, idempotencyKey string, req *models.CheckoutRequest) (*CheckoutResult, *ServiceError)
}

type checkoutServiceImpl struct {
	orders  repository.OrderRepository
	store   database.CartStore
	events  OrderEventPublisher
	metrics awspkg.MetricsRecorder
	logger  *zap.Logger
	now     func() time.Time
}

func NewCheckoutService(
	orders repository.OrderRepository,
	store database.CartStore,
	events OrderEventPublisher,
	metrics awspkg.MetricsRecorder,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		orders:  orders,
		store:   store,
		events:  events,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, c *cart.Cart, req *models.CheckoutRequest) (*CheckoutResult, *ServiceError) {
	order, svcErr := s.newOrder(c, req)
	if svcErr != nil {
		return nil, svcErr
	}

	// write #1
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		recordCount(s.metrics, awspkg.MetricCheckoutFailed, nil)
		return nil, transientError("Failed to place order. Please try again.", err)
	}

	items := lineItems(order.ID, c)
	var sum int64
	for _, it := range items {
		sum += it.TotalPrice
	}
	if sum != order.TotalAmount {
		err := fmt.Errorf("line items total %d does not match order total %d", sum, order.TotalAmount)
		s.logger.Error("Checkout total mismatch", zap.Error(err), zap.String("order_id", order.ID.String()))
		recordCount(s.metrics, awspkg.MetricCheckoutIncomplete, nil)
		return nil, partialCheckoutError(order.ID.String(), err)
	}

	// write #2
	if err := s.orders.CreateLineItems(ctx, items); err != nil {
		s.logger.Error("Order created without line items",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
			zap.Int("item_count", len(items)),
		)
		recordCount(s.metrics, awspkg.MetricCheckoutIncomplete, nil)
		return nil, partialCheckoutError(order.ID.String(), err)
	}

	order.Items = items
	c.Clear()

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int64("total_amount", order.TotalAmount),
		zap.Int("line_items", len(items)),
	)
	return &CheckoutResult{Outcome: CheckoutPlaced, Order: order}, nil
}

func (s *checkoutServiceImpl) SubmitSessionCheckout(ctx context.Context, sessionID, idempotencyKey string, req *models.CheckoutRequest) (*CheckoutResult, *ServiceError) {
	token, acquired, err := s.store.AcquireCheckoutLock(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to acquire checkout lock", zap.Error(err), zap.String("session_id", sessionID))
		return nil, transientError("Checkout is temporarily unavailable", err)
	}
	if !acquired {
		return nil, conflictError("A checkout for this cart is already in progress")
	}
	defer func() {
		// release even when the request context is already done
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.store.ReleaseCheckoutLock(relCtx, sessionID, token); err != nil {
			s.logger.Warn("Failed to release checkout lock", zap.Error(err), zap.String("session_id", sessionID))
		}
	}()

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey != "" {
		if res, svcErr := s.replay(ctx, sessionID, idempotencyKey); res != nil || svcErr != nil {
			return res, svcErr
		}
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load cart for checkout", zap.Error(err), zap.String("session_id", sessionID))
		return nil, transientError("Failed to load cart", err)
	}

	res, svcErr := s.Checkout(ctx, c, req)
	if svcErr != nil {
		return nil, svcErr
	}

	// The order exists from here on, so later failures are logged only.
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		s.logger.Error("Order placed but cart could not be cleared", zap.Error(err),
			zap.String("session_id", sessionID), zap.String("order_id", res.Order.ID.String()))
	}
	if idempotencyKey != "" {
		if err := s.store.SetIdempotency(ctx, sessionID, idempotencyKey, res.Order.ID.String()); err != nil {
			s.logger.Warn("Failed to record idempotency key", zap.Error(err), zap.String("order_id", res.Order.ID.String()))
		}
	}

	s.publishPlaced(ctx, res.Order)
	recordCount(s.metrics, awspkg.MetricOrdersCreated, nil)
	recordValue(s.metrics, awspkg.MetricOrderRevenue, float64(res.Order.TotalAmount), nil)
	return res, nil
}

// replay returns the order this session previously placed under key, or
// (nil, nil) when the key is unknown to the session.
func (s *checkoutServiceImpl) replay(ctx context.Context, sessionID, key string) (*CheckoutResult, *ServiceError) {
	orderID, err := s.store.GetIdempotency(ctx, sessionID, key)
	if err != nil {
		s.logger.Error("Failed to read idempotency key", zap.Error(err))
		return nil, transientError("Checkout is temporarily unavailable", err)
	}
	if orderID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(orderID)
	if err != nil {
		s.logger.Warn("Ignoring malformed idempotency entry", zap.String("value", orderID))
		return nil, nil
	}
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, transientError("Failed to load order", err)
	}
	s.logger.Info("Checkout replayed", zap.String("order_id", orderID))
	return &CheckoutResult{Outcome: CheckoutReplayed, Order: order}, nil
}

// newOrder validates the request and builds the pending order. No write
// happens when it returns an error.
func (s *checkoutServiceImpl) newOrder(c *cart.Cart, req *models.CheckoutRequest) (*models.Order, *ServiceError) {
	if c == nil || c.IsEmpty() {
		return nil, validationError("Your cart is empty", nil)
	}
	if req == nil {
		return nil, validationError("Customer details are required", nil)
	}

	total, err := c.CheckedTotal()
	if err != nil || total < 0 {
		return nil, validationError("Order total is out of range", err)
	}

	details := *req
	details.CustomerName = strings.TrimSpace(details.CustomerName)
	details.CustomerEmail = strings.TrimSpace(details.CustomerEmail)
	details.CustomerPhone = strings.TrimSpace(details.CustomerPhone)
	details.DeliveryDate = strings.TrimSpace(details.DeliveryDate)
	if svcErr := validateStruct(&details); svcErr != nil {
		return nil, svcErr
	}

	order := &models.Order{
		CustomerName:    details.CustomerName,
		CustomerEmail:   details.CustomerEmail,
		CustomerPhone:   details.CustomerPhone,
		DeliveryAddress: optional(details.DeliveryAddress),
		Notes:           optional(details.Notes),
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
	}
	if details.DeliveryDate != "" {
		d, err := time.Parse("2006-01-02", details.DeliveryDate)
		if err != nil {
			return nil, validationError("delivery_date must be a date in YYYY-MM-DD format", err)
		}
		order.DeliveryDate = &d
	}
	return order, nil
}

func lineItems(orderID uuid.UUID, c *cart.Cart) []models.OrderLineItem {
	lines := c.Lines()
	items := make([]models.OrderLineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderLineItem{
			OrderID:     orderID,
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.Product.Price,
			TotalPrice:  l.Subtotal(),
		})
	}
	return items
}

func (s *checkoutServiceImpl) publishPlaced(ctx context.Context, order *models.Order) {
	if s.events == nil {
		return
	}
	count := 0
	for _, it := range order.Items {
		count += it.Quantity
	}
	evt := models.OrderPlacedEvent{
		Event:        models.EventOrderPlaced,
		OrderID:      order.ID.String(),
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		DisplayTotal: models.FormatPrice(order.TotalAmount),
		ItemCount:    count,
		Timestamp:    s.now().UTC(),
	}
	if err := s.events.PublishOrderPlaced(ctx, evt); err != nil {
		s.logger.Error("Failed to publish order.placed", zap.Error(err), zap.String("order_id", evt.OrderID))
	}
}

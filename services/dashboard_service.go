package services

import (
	"context"
	"time"

	"bakery-service/models"
	"bakery-service/repository"

	"go.uber.org/zap"
)

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, *ServiceError)
}

type dashboardServiceImpl struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	messages repository.ContactMessageRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewDashboardService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	messages repository.ContactMessageRepository,
	logger *zap.Logger,
) DashboardService {
	return &dashboardServiceImpl{products: products, orders: orders, messages: messages, logger: logger, now: time.Now}
}

// Stats reports revenue from delivered orders created in the current
// calendar month, server local time.
func (s *dashboardServiceImpl) Stats(ctx context.Context) (*models.DashboardStats, *ServiceError) {
	var stats models.DashboardStats
	var err error

	if stats.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, s.fail("products", err)
	}
	if stats.PendingOrders, err = s.orders.CountByStatus(ctx, models.OrderStatusPending); err != nil {
		return nil, s.fail("orders", err)
	}
	if stats.PendingMessages, err = s.messages.CountByStatus(ctx, models.MessageStatusPending); err != nil {
		return nil, s.fail("messages", err)
	}

	from, to := MonthBounds(s.now())
	if stats.MonthlyRevenue, err = s.orders.SumDeliveredBetween(ctx, from, to); err != nil {
		return nil, s.fail("revenue", err)
	}
	return &stats, nil
}

func (s *dashboardServiceImpl) fail(part string, err error) *ServiceError {
	s.logger.Error("Failed to load dashboard stats", zap.String("part", part), zap.Error(err))
	return transientError("Failed to load dashboard", err)
}

// MonthBounds returns [first instant of t's month, first instant of the next).
func MonthBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}

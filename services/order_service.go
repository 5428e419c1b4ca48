package services

import (
	"context"
	"errors"
	"time"

	"bakery-service/models"
	awspkg "bakery-service/pkg/aws"
	"bakery-service/repository"
	"bakery-service/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	List(ctx context.Context, q repository.OrderQuery) ([]models.Order, int64, *ServiceError)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *ServiceError)
}

type orderServiceImpl struct {
	repo    repository.OrderRepository
	policy  workflow.Policy
	events  OrderEventPublisher
	metrics awspkg.MetricsRecorder
	logger  *zap.Logger
}

func NewOrderService(
	repo repository.OrderRepository,
	policy workflow.Policy,
	events OrderEventPublisher,
	metrics awspkg.MetricsRecorder,
	logger *zap.Logger,
) OrderService {
	if policy == nil {
		policy = workflow.Permissive{}
	}
	return &orderServiceImpl{repo: repo, policy: policy, events: events, metrics: metrics, logger: logger}
}

func (s *orderServiceImpl) List(ctx context.Context, q repository.OrderQuery) ([]models.Order, int64, *ServiceError) {
	if q.Status != "" && !workflow.Orders.IsValid(q.Status) {
		return nil, 0, validationError("Invalid status filter: "+string(q.Status), nil)
	}
	orders, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, transientError("Failed to load orders", err)
	}
	return orders, total, nil
}

func (s *orderServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Order not found")
	}
	if err != nil {
		s.logger.Error("Failed to load order", zap.Error(err), zap.String("order_id", id.String()))
		return nil, transientError("Failed to load order", err)
	}
	return order, nil
}

// UpdateStatus moves an order to status. Only the status column is written;
// on failure the error carries the status the order still has.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *ServiceError) {
	target, err := workflow.Orders.Parse(status)
	if err != nil {
		return nil, validationError("Invalid order status: "+status, err)
	}

	order, svcErr := s.Get(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	from := order.Status

	if err := workflow.Orders.Transition(s.policy, from, target); err != nil {
		svcErr := conflictError(err.Error())
		svcErr.Err = err
		svcErr.PreviousStatus = string(from)
		return nil, svcErr
	}
	if from == target {
		return order, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Order not found")
		}
		s.logger.Error("Failed to update order status",
			zap.Error(err),
			zap.String("order_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(target)),
		)
		svcErr := transientError("Failed to update order status", err)
		svcErr.PreviousStatus = string(from)
		return nil, svcErr
	}

	now := time.Now()
	order.Status = target
	order.UpdatedAt = now
	s.logger.Info("Order status changed",
		zap.String("order_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("policy", s.policy.Name()),
	)

	recordCount(s.metrics, awspkg.MetricOrderStatusChanged, map[string]string{"Status": string(target)})
	if s.events != nil {
		evt := models.OrderStatusChangedEvent{
			Event:     models.EventOrderStatusChanged,
			OrderID:   id.String(),
			From:      string(from),
			To:        string(target),
			Timestamp: now.UTC(),
		}
		if err := s.events.PublishOrderStatusChanged(ctx, evt); err != nil {
			s.logger.Error("Failed to publish order.status_changed", zap.Error(err), zap.String("order_id", evt.OrderID))
		}
	}
	return order, nil
}

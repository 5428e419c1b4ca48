package repository

import (
	"context"
	"errors"
	"time"

	"bakery-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderQuery filters and pages the admin order list. An empty Status matches
// every order.
type OrderQuery struct {
	Status models.OrderStatus
	Page   int
	Limit  int
}

// OrderRepository is the order storage contract. CreateOrder and
// CreateLineItems are the two checkout writes and are never combined.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateLineItems(ctx context.Context, items []models.OrderLineItem) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindAll(ctx context.Context, q OrderQuery) ([]models.Order, int64, error)
	CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error)
	SumDeliveredBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// CreateOrder inserts the order row only; associations are never cascaded.
func (r *GormOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

// CreateLineItems inserts all items in a single statement.
func (r *GormOrderRepository) CreateLineItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return errors.New("no line items to insert")
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// UpdateStatus writes the status column (and updated_at) of one order.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, q OrderQuery) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Items").
		Offset(offset(q.Page, q.Limit)).
		Limit(q.Limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// SumDeliveredBetween totals delivered orders created in [from, to).
func (r *GormOrderRepository) SumDeliveredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ? AND created_at >= ? AND created_at < ?", models.OrderStatusDelivered, from, to).
		Scan(&sum).Error
	return sum, err
}

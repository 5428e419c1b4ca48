package repository

import (
	"context"

	"bakery-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageQuery struct {
	Status models.MessageStatus
	Page   int
	Limit  int
}

type ContactMessageRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.MessageStatus) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	FindAll(ctx context.Context, q MessageQuery) ([]models.ContactMessage, int64, error)
	CountByStatus(ctx context.Context, status models.MessageStatus) (int64, error)
}

type GormContactMessageRepository struct {
	db *gorm.DB
}

func NewGormContactMessageRepository(db *gorm.DB) ContactMessageRepository {
	return &GormContactMessageRepository{db: db}
}

func (r *GormContactMessageRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *GormContactMessageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.MessageStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
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

func (r *GormContactMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var m models.ContactMessage
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *GormContactMessageRepository) FindAll(ctx context.Context, q MessageQuery) ([]models.ContactMessage, int64, error) {
	var msgs []models.ContactMessage
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.
		Offset(offset(q.Page, q.Limit)).
		Limit(q.Limit).
		Order("created_at DESC").
		Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (r *GormContactMessageRepository) CountByStatus(ctx context.Context, status models.MessageStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

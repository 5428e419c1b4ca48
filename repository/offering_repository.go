package repository

import (
	"context"

	"bakery-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OfferingRepository stores the bakery's advertised services. FindAll orders
// by display_order, oldest first among equal positions.
type OfferingRepository interface {
	FindAll(ctx context.Context, activeOnly bool) ([]models.ServiceOffering, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceOffering, error)
	Create(ctx context.Context, offering *models.ServiceOffering) error
	Update(ctx context.Context, offering *models.ServiceOffering) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormOfferingRepository struct {
	db *gorm.DB
}

func NewGormOfferingRepository(db *gorm.DB) OfferingRepository {
	return &GormOfferingRepository{db: db}
}

func (r *GormOfferingRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.ServiceOffering, error) {
	var offerings []models.ServiceOffering
	query := r.db.WithContext(ctx).Model(&models.ServiceOffering{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("display_order ASC").Order("created_at ASC").Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *GormOfferingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceOffering, error) {
	var o models.ServiceOffering
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormOfferingRepository) Create(ctx context.Context, offering *models.ServiceOffering) error {
	return r.db.WithContext(ctx).Create(offering).Error
}

func (r *GormOfferingRepository) Update(ctx context.Context, offering *models.ServiceOffering) error {
	res := r.db.WithContext(ctx).
		Model(&models.ServiceOffering{}).
		Where("id = ?", offering.ID).
		Select("title", "description", "image_url", "icon", "active", "display_order", "updated_at").
		Updates(offering)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormOfferingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.ServiceOffering{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

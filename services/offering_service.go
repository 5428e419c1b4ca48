package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bakery-service/models"
	"bakery-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OfferingService manages the services the bakery advertises (custom cakes,
// catering, workshops). Only active offerings are public.
type OfferingService interface {
	ListActive(ctx context.Context) ([]models.ServiceOffering, *ServiceError)

	ListAll(ctx context.Context) ([]models.ServiceOffering, *ServiceError)
	Create(ctx context.Context, req *models.ServiceOfferingRequest) (*models.ServiceOffering, *ServiceError)
	Update(ctx context.Context, id uuid.UUID, req *models.ServiceOfferingRequest) (*models.ServiceOffering, *ServiceError)
	Delete(ctx context.Context, id uuid.UUID) *ServiceError
}

type offeringServiceImpl struct {
	repo   repository.OfferingRepository
	logger *zap.Logger
}

func NewOfferingService(repo repository.OfferingRepository, logger *zap.Logger) OfferingService {
	return &offeringServiceImpl{repo: repo, logger: logger}
}

func (s *offeringServiceImpl) ListActive(ctx context.Context) ([]models.ServiceOffering, *ServiceError) {
	offerings, err := s.repo.FindAll(ctx, true)
	if err != nil {
		s.logger.Error("Failed to load services", zap.Error(err))
		svcErr := transientError("Services are temporarily unavailable", err)
		svcErr.StatusCode = http.StatusServiceUnavailable
		return nil, svcErr
	}
	return offerings, nil
}

func (s *offeringServiceImpl) ListAll(ctx context.Context) ([]models.ServiceOffering, *ServiceError) {
	offerings, err := s.repo.FindAll(ctx, false)
	if err != nil {
		s.logger.Error("Failed to list services", zap.Error(err))
		return nil, transientError("Failed to load services", err)
	}
	return offerings, nil
}

func (s *offeringServiceImpl) Create(ctx context.Context, req *models.ServiceOfferingRequest) (*models.ServiceOffering, *ServiceError) {
	o := &models.ServiceOffering{}
	if svcErr := applyOfferingRequest(o, req); svcErr != nil {
		return nil, svcErr
	}
	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error("Failed to create service", zap.Error(err))
		return nil, transientError("Failed to save service", err)
	}
	s.logger.Info("Service created", zap.String("service_id", o.ID.String()), zap.String("title", o.Title))
	return o, nil
}

func (s *offeringServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.ServiceOfferingRequest) (*models.ServiceOffering, *ServiceError) {
	o, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Service not found")
	}
	if err != nil {
		s.logger.Error("Failed to load service", zap.Error(err), zap.String("service_id", id.String()))
		return nil, transientError("Failed to load service", err)
	}
	if svcErr := applyOfferingRequest(o, req); svcErr != nil {
		return nil, svcErr
	}
	if err := s.repo.Update(ctx, o); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Service not found")
		}
		s.logger.Error("Failed to update service", zap.Error(err), zap.String("service_id", id.String()))
		return nil, transientError("Failed to save service", err)
	}
	return o, nil
}

func (s *offeringServiceImpl) Delete(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Service not found")
		}
		s.logger.Error("Failed to delete service", zap.Error(err), zap.String("service_id", id.String()))
		return transientError("Failed to delete service", err)
	}
	s.logger.Info("Service deleted", zap.String("service_id", id.String()))
	return nil
}

// applyOfferingRequest validates req and copies it onto o. A blank icon means
// heart; a nil Active keeps the current value, or true for new offerings.
func applyOfferingRequest(o *models.ServiceOffering, req *models.ServiceOfferingRequest) *ServiceError {
	if req == nil {
		return validationError("Service details are required", nil)
	}
	req.Title = strings.TrimSpace(req.Title)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.Icon = strings.ToLower(strings.TrimSpace(req.Icon))
	if svcErr := validateStruct(req); svcErr != nil {
		return svcErr
	}

	icon := models.IconHeart
	if req.Icon != "" {
		icon = models.OfferingIcon(req.Icon)
		if !icon.IsValid() {
			return validationError("Invalid icon: "+req.Icon, nil)
		}
	}

	o.Title = req.Title
	o.Description = strings.TrimSpace(req.Description)
	o.ImageURL = req.ImageURL
	o.Icon = icon
	if req.DisplayOrder != nil {
		o.DisplayOrder = *req.DisplayOrder
	}
	switch {
	case req.Active != nil:
		o.Active = *req.Active
	case o.ID == uuid.Nil:
		o.Active = true
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bakery-service/models"
	awspkg "bakery-service/pkg/aws"
	"bakery-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogFilter is the public listing query. An empty or "all" category
// matches every category.
type CatalogFilter struct {
	Category string
	Search   string
}

type CatalogService interface {
	ListAvailable(ctx context.Context, filter CatalogFilter) ([]models.Product, *ServiceError)
	GetAvailableProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)

	ListAll(ctx context.Context) ([]models.Product, *ServiceError)
	Create(ctx context.Context, req *models.ProductRequest) (*models.Product, *ServiceError)
	Update(ctx context.Context, id uuid.UUID, req *models.ProductRequest) (*models.Product, *ServiceError)
	Delete(ctx context.Context, id uuid.UUID) *ServiceError
}

type catalogServiceImpl struct {
	repo    repository.ProductRepository
	cache   CatalogCache
	metrics awspkg.MetricsRecorder
	logger  *zap.Logger
}

// NewCatalogService accepts a nil cache, in which case every listing hits
// storage.
func NewCatalogService(repo repository.ProductRepository, cache CatalogCache, metrics awspkg.MetricsRecorder, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// ListAvailable fetches available products once (or from cache) and filters
// them in memory, newest first.
func (s *catalogServiceImpl) ListAvailable(ctx context.Context, filter CatalogFilter) ([]models.Product, *ServiceError) {
	category := models.ProductCategory(strings.ToLower(strings.TrimSpace(filter.Category)))
	if category != "" && category != models.CategoryAll && !category.IsValid() {
		return nil, validationError("Invalid category: "+filter.Category, nil)
	}

	products, svcErr := s.availableProducts(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	return FilterProducts(products, category, filter.Search), nil
}

func (s *catalogServiceImpl) availableProducts(ctx context.Context) ([]models.Product, *ServiceError) {
	if s.cache != nil {
		if cached, ok := s.cache.GetAvailable(ctx); ok {
			recordCount(s.metrics, awspkg.MetricCatalogCacheHits, nil)
			return cached, nil
		}
		recordCount(s.metrics, awspkg.MetricCatalogCacheMisses, nil)
	}

	products, err := s.repo.FindAll(ctx, repository.ProductQuery{AvailableOnly: true})
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		svcErr := transientError("Products are temporarily unavailable", err)
		svcErr.StatusCode = http.StatusServiceUnavailable
		return nil, svcErr
	}
	if s.cache != nil {
		s.cache.SetAvailable(ctx, products)
	}
	return products, nil
}

// FilterProducts keeps products matching category (exact, empty or "all")
// and whose name or description contains search, case-insensitively. Input
// order is preserved.
func FilterProducts(products []models.Product, category models.ProductCategory, search string) []models.Product {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != models.CategoryAll && p.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *catalogServiceImpl) GetAvailableProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	p, svcErr := s.find(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if !p.Available {
		return nil, notFoundError("Product not found")
	}
	return p, nil
}

func (s *catalogServiceImpl) ListAll(ctx context.Context) ([]models.Product, *ServiceError) {
	products, err := s.repo.FindAll(ctx, repository.ProductQuery{})
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, transientError("Failed to load products", err)
	}
	return products, nil
}

func (s *catalogServiceImpl) Create(ctx context.Context, req *models.ProductRequest) (*models.Product, *ServiceError) {
	p := &models.Product{}
	if svcErr := applyProductRequest(p, req); svcErr != nil {
		return nil, svcErr
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, transientError("Failed to save product", err)
	}
	s.logger.Info("Product created", zap.String("product_id", p.ID.String()), zap.String("name", p.Name))
	s.invalidate(ctx)
	return p, nil
}

func (s *catalogServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.ProductRequest) (*models.Product, *ServiceError) {
	p, svcErr := s.find(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := applyProductRequest(p, req); svcErr != nil {
		return nil, svcErr
	}
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Product not found")
		}
		s.logger.Error("Failed to update product", zap.Error(err), zap.String("product_id", id.String()))
		return nil, transientError("Failed to save product", err)
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *catalogServiceImpl) Delete(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Product not found")
		}
		s.logger.Error("Failed to delete product", zap.Error(err), zap.String("product_id", id.String()))
		return transientError("Failed to delete product", err)
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	s.invalidate(ctx)
	return nil
}

func (s *catalogServiceImpl) find(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Product not found")
	}
	if err != nil {
		s.logger.Error("Failed to load product", zap.Error(err), zap.String("product_id", id.String()))
		return nil, transientError("Failed to load product", err)
	}
	return p, nil
}

func (s *catalogServiceImpl) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("Failed to invalidate catalog cache", zap.Error(err))
	}
}

// applyProductRequest validates req and copies it onto p. A nil Available
// keeps the current value, or true for new products.
func applyProductRequest(p *models.Product, req *models.ProductRequest) *ServiceError {
	req.Name = strings.TrimSpace(req.Name)
	req.Price = strings.TrimSpace(req.Price)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if svcErr := validateStruct(req); svcErr != nil {
		return svcErr
	}

	price, err := models.ParsePrice(req.Price)
	if err != nil {
		return validationError(err.Error(), err)
	}
	category := models.ProductCategory(req.Category)
	if !category.IsValid() {
		return validationError("Invalid category: "+req.Category, nil)
	}

	p.Name = req.Name
	p.Description = strings.TrimSpace(req.Description)
	p.Price = price
	p.Category = category
	p.ImageURL = req.ImageURL
	switch {
	case req.Available != nil:
		p.Available = *req.Available
	case p.ID == uuid.Nil:
		p.Available = true
	}
	return nil
}

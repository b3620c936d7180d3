package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/audit"
	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/repo"
	"github.com/ndolgikh/marketcore/internal/transport"
)

type CatalogService struct {
	Repo  *repo.GormRepo
	Audit *audit.Sink
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	switch {
	case req.Name == "":
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	case req.Price < 0:
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	case req.Stock < 0:
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	return s.Repo.CreateProduct(ctx, product)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListProducts(ctx, offset, limit)
}

// PatchProduct updates name, description or price. A price change is
// reported to the audit sink with its before/after values.
func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest, actor string) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	before, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	product, err := s.Repo.PatchProduct(ctx, id, req.Name, req.Description, req.Price)
	if err != nil {
		return nil, err
	}

	if req.Price != nil && *req.Price != before.Price {
		s.Audit.Emit(ctx, audit.Event{
			Entity: "products",
			Action: audit.ActionUpdate,
			Before: map[string]any{"id": before.ID, "price": before.Price},
			After:  map[string]any{"id": product.ID, "price": product.Price},
			Actor:  actor,
		})
	}
	return product, nil
}

func (s *CatalogService) CreatePromotion(ctx context.Context, req transport.CreatePromotionRequest) (*models.Promotion, error) {
	switch {
	case req.Name == "":
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	case req.DiscountPercent < 0 || req.DiscountPercent > 100:
		return nil, fmt.Errorf("%w: discount must be between 0 and 100", ErrValidation)
	case req.EndsAt.Before(req.StartsAt):
		return nil, fmt.Errorf("%w: promotion window ends before it starts", ErrValidation)
	}

	for _, id := range req.ProductIDs {
		if _, err := s.Repo.GetProduct(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
			}
			return nil, err
		}
	}

	promo := &models.Promotion{
		Name:            req.Name,
		DiscountPercent: req.DiscountPercent,
		StartsAt:        req.StartsAt.UTC(),
		EndsAt:          req.EndsAt.UTC(),
	}
	if _, err := s.Repo.CreatePromotion(ctx, promo); err != nil {
		return nil, err
	}
	if len(req.ProductIDs) > 0 {
		if err := s.Repo.LinkPromotionProducts(ctx, promo, req.ProductIDs); err != nil {
			return nil, err
		}
	}
	return promo, nil
}

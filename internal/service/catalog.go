package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkotenko/storefront/internal/events"
	"github.com/dkotenko/storefront/internal/logging"
	"github.com/dkotenko/storefront/internal/models"
	"github.com/dkotenko/storefront/internal/repo"
	"github.com/dkotenko/storefront/internal/search"
	"github.com/dkotenko/storefront/internal/transport"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Producer events.Producer
	// Search is nil when ES_URL is not configured.
	Search *search.Client
}

func (s *CatalogService) publish(ctx context.Context, key string, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, events.TopicProductEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", events.TopicProductEvents, "error", err)
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("price is required: %w", ErrValidation)
	}
	if *req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}

	prod := models.Product{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		l.Error("create_product_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, prod.ID.String(), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	s.reindex(ctx, &prod)

	l.Info("product_created", "product_id", prod.ID)
	return &prod, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]transport.ProductSummary, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, patch transport.ProductPatch) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update")

	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, fmt.Errorf("name cannot be empty: %w", ErrValidation)
	}

	prod, err := s.Repo.PatchProduct(ctx, id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		l.Error("update_product_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, prod.ID.String(), map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	s.reindex(ctx, prod)

	l.Info("product_updated", "product_id", prod.ID)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete")

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		l.Error("delete_product_failed", "error", err)
		return err
	}

	s.publish(ctx, id.String(), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			l.Error("search_deindex_failed", "product_id", id, "error", err)
		}
	}

	l.Info("product_deleted", "product_id", id)
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string) (int64, []models.Product, error) {
	if s.Search == nil {
		return 0, nil, fmt.Errorf("search is not configured")
	}
	return s.Search.Search(ctx, query)
}

// SearchEnabled reports whether the optional ES index is wired in.
func (s *CatalogService) SearchEnabled() bool { return s.Search != nil }

func (s *CatalogService) reindex(ctx context.Context, prod *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Error("search_index_failed", "product_id", prod.ID, "error", err)
	}
}

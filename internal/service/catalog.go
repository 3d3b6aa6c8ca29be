package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/shopfront/internal/logging"
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/internal/transport"
	"github.com/Skotchmaster/shopfront/internal/util"
)

const (
	maxProductName        = 100
	maxProductDescription = 200
)

type CatalogRepo interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error)
	SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type CatalogService struct {
	Repo   CatalogRepo
	Events Publisher
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, page, perPage int) (*models.ProductPage, error) {
	page, perPage = util.Normalize(page, perPage)
	offset, limit := util.Calculate(page, perPage)

	total, items, err := s.Repo.GetProducts(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, perPage), nil
}

// SearchProducts falls back to ListProducts for a blank query.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, perPage int) (*models.ProductPage, error) {
	if strings.TrimSpace(query) == "" {
		return s.ListProducts(ctx, page, perPage)
	}

	page, perPage = util.Normalize(page, perPage)
	offset, limit := util.Calculate(page, perPage)

	total, items, err := s.Repo.SearchProducts(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, page, perPage), nil
}

func (s *CatalogService) AddProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.add_product")

	if err := validateProduct(req); err != nil {
		l.Warn("add_product_rejected", "reason", err.Error())
		return nil, err
	}

	created, err := s.Repo.CreateProduct(ctx, models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, ProductEventsTopic, created.ID, map[string]any{
		"type":      "product_created",
		"productID": created.ID,
		"name":      created.Name,
		"price":     created.Price,
	})
	l.Info("add_product_success", "product_id", created.ID)
	return created, nil
}

// SeedIfEmpty inserts samples only into an empty catalog and reports how
// many were added.
func (s *CatalogService) SeedIfEmpty(ctx context.Context, samples []transport.CreateProductRequest) (int, error) {
	total, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if total > 0 {
		return 0, nil
	}

	for i, sample := range samples {
		if _, err := s.AddProduct(ctx, sample); err != nil {
			return i, fmt.Errorf("seed %q: %w", sample.Name, err)
		}
	}
	return len(samples), nil
}

func validateProduct(req transport.CreateProductRequest) error {
	switch {
	case req.Name == "":
		return validationError("name is required")
	case utf8.RuneCountInString(req.Name) > maxProductName:
		return validationError(fmt.Sprintf("name must be at most %d characters", maxProductName))
	case utf8.RuneCountInString(req.Description) > maxProductDescription:
		return validationError(fmt.Sprintf("description must be at most %d characters", maxProductDescription))
	case req.Price == nil:
		return validationError("price is required")
	case *req.Price < 0:
		return validationError("price must be non-negative")
	}
	return nil
}

func newPage(items []models.Product, total int64, page, perPage int) *models.ProductPage {
	return &models.ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: util.TotalPages(total, perPage),
	}
}

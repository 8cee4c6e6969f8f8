package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/bakery-storefront/internal/apperror"
	"github.com/imrishuroy/bakery-storefront/internal/logger"
	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

// maxSlugAttempts bounds the numeric-suffix search for a free slug.
const maxSlugAttempts = 50

type Manager struct {
	repo      Repository
	validator *validation.Validator
}

func NewManager(repo Repository, v *validation.Validator) *Manager {
	return &Manager{repo: repo, validator: v}
}

// CreateProduct adds a product under the first free slug derived from its title.
func (m *Manager) CreateProduct(ctx context.Context, req validation.ProductRequest) (*Product, error) {
	if errs := m.validator.Struct(req); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	base := Slugify(req.Title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		p := fromRequest(req)
		p.Slug = candidate(base, attempt)

		err := m.repo.Create(ctx, p)
		if errors.Is(err, ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, apperror.Internal("failed to create product", err)
		}
		logger.Info(ctx, "product created", zap.String("slug", p.Slug))
		return p, nil
	}
	return nil, apperror.Conflict("slug_unavailable", nil)
}

func (m *Manager) ListProducts(ctx context.Context, category string) ([]Product, error) {
	out, err := m.repo.FindAll(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, apperror.Internal("failed to list products", err)
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

func (m *Manager) GetProduct(ctx context.Context, slug string) (*Product, error) {
	p, err := m.repo.FindBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return nil, apperror.NotFound("product_not_found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to get product", err)
	}
	return p, nil
}

// UpdateProduct replaces the mutable fields of a product. The slug is kept so links stay valid.
func (m *Manager) UpdateProduct(ctx context.Context, id uuid.UUID, req validation.ProductRequest) (*Product, error) {
	if errs := m.validator.Struct(req); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	existing, err := m.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperror.NotFound("product_not_found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to get product", err)
	}

	p := fromRequest(req)
	p.ID = existing.ID
	p.Slug = existing.Slug
	p.CreatedAt = existing.CreatedAt
	if err := m.repo.Update(ctx, p); err != nil {
		return nil, apperror.Internal("failed to update product", err)
	}
	return p, nil
}

func (m *Manager) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := m.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("product_not_found")
	}
	if err != nil {
		return apperror.Internal("failed to delete product", err)
	}
	return nil
}

func fromRequest(req validation.ProductRequest) *Product {
	flavors := req.Flavors
	if flavors == nil {
		flavors = []string{}
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}
	return &Product{
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Category:       strings.TrimSpace(req.Category),
		Sizes:          req.Sizes,
		Flavors:        flavors,
		Images:         images,
		IsCustomizable: req.IsCustomizable,
		IsPhotoCake:    req.IsPhotoCake,
	}
}

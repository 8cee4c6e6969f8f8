package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrDuplicate = errors.New("duplicate slug")
)

// Repository defines data access for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	FindAll(ctx context.Context, category string) ([]Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create inserts p, returning ErrDuplicate when its slug is taken.
func (r *GormRepository) Create(ctx context.Context, p *Product) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// FindAll returns products newest first, optionally filtered by category.
func (r *GormRepository) FindAll(ctx context.Context, category string) ([]Product, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []Product
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return out, nil
}

func (r *GormRepository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormRepository) findOne(ctx context.Context, query string, arg interface{}) (*Product, error) {
	var p Product
	err := r.db.WithContext(ctx).Where(query, arg).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

// Update saves every column of p.
func (r *GormRepository) Update(ctx context.Context, p *Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

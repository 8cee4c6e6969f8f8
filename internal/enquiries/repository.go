package enquiries

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an enquiry id does not exist.
var ErrNotFound = errors.New("enquiry not found")

// Repository defines data access for enquiries.
type Repository interface {
	Create(ctx context.Context, e *Enquiry) error
	FindAll(ctx context.Context) ([]Enquiry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Enquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, e *Enquiry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create enquiry: %w", err)
	}
	return nil
}

func (r *GormRepository) FindAll(ctx context.Context) ([]Enquiry, error) {
	var out []Enquiry
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find enquiries: %w", err)
	}
	return out, nil
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Enquiry, error) {
	var e Enquiry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find enquiry: %w", err)
	}
	return &e, nil
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	res := r.db.WithContext(ctx).Model(&Enquiry{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update enquiry status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Enquiry{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete enquiry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

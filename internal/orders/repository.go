package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an order id does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrStatusMismatch is returned when a conditional status update finds a different current status.
	ErrStatusMismatch = errors.New("status mismatch/conditional failed")
	// ErrDuplicate is returned when a unique column (phone, order number) already holds the value.
	ErrDuplicate = errors.New("duplicate key")
)

// Repository defines data access for orders and their users.
type Repository interface {
	FindUserByPhone(ctx context.Context, phone string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	OrderNumberExists(ctx context.Context, number string) (bool, error)
	Create(ctx context.Context, order *Order) error
	FindAll(ctx context.Context) ([]Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GormRepository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// FindUserByPhone returns (nil, nil) if no user has the phone.
func (r *GormRepository) FindUserByPhone(ctx context.Context, phone string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by phone: %w", err)
	}
	return &u, nil
}

func (r *GormRepository) CreateUser(ctx context.Context, user *User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *GormRepository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Order{}).Where("order_number = ?", number).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count order number: %w", err)
	}
	return count > 0, nil
}

func (r *GormRepository) Create(ctx context.Context, order *Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", translate(err))
	}
	return nil
}

// FindAll returns every order, newest first.
func (r *GormRepository) FindAll(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	return orders, nil
}

// FindByUserID returns a user's orders, newest first.
func (r *GormRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	var orders []Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("find orders by user: %w", err)
	}
	return orders, nil
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

// UpdateStatus conditionally updates the order status from expected -> next.
// Returns ErrStatusMismatch if no row had the expected status.
func (r *GormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status) error {
	res := r.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if res.Error != nil {
		return fmt.Errorf("update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStatusMismatch
	}
	return nil
}

// Delete hard-deletes an order.
func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

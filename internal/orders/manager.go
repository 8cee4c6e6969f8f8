package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/bakery-storefront/internal/apperror"
	"github.com/imrishuroy/bakery-storefront/internal/events"
	"github.com/imrishuroy/bakery-storefront/internal/logger"
	"github.com/imrishuroy/bakery-storefront/internal/pricing"
	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

const maxNumberAttempts = 5

// Manager owns the order lifecycle: placement, lookup, status changes and deletion.
// Every mutation returns the persisted result or an *apperror.Error, never a partial state.
type Manager struct {
	repo      Repository
	validator *validation.Validator
	events    events.Publisher
	loc       *time.Location
	nowFunc   func() time.Time
	suffix    func() (string, error)
}

// NewManager creates a Manager. loc is the business timezone used to date order numbers.
func NewManager(repo Repository, v *validation.Validator, pub events.Publisher, loc *time.Location) *Manager {
	if pub == nil {
		pub = events.Nop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Manager{
		repo:      repo,
		validator: v,
		events:    pub,
		loc:       loc,
		nowFunc:   time.Now,
		suffix:    randomSuffix,
	}
}

// CreateOrder validates the checkout, resolves the customer by phone and persists a pending COD order.
func (m *Manager) CreateOrder(ctx context.Context, req validation.CreateOrderRequest) (*Order, error) {
	if errs := m.validator.Order(req); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	user, err := m.resolveUser(ctx, strings.TrimSpace(req.Name), req.Phone)
	if err != nil {
		return nil, err
	}

	summary := pricing.Calculate(req.Items)
	order := &Order{
		UserID:        user.ID,
		Name:          strings.TrimSpace(req.Name),
		Phone:         req.Phone,
		Email:         strings.TrimSpace(req.Email),
		Address:       strings.TrimSpace(req.Address),
		Area:          strings.TrimSpace(req.Area),
		Landmark:      strings.TrimSpace(req.Landmark),
		Pincode:       req.Pincode,
		DeliveryDate:  req.DeliveryDate,
		DeliveryTime:  strings.TrimSpace(req.DeliveryTime),
		Instructions:  strings.TrimSpace(req.Instructions),
		FreeCandle:    req.FreeCandle,
		Items:         req.Items,
		Subtotal:      summary.Subtotal,
		DeliveryFee:   summary.DeliveryFee,
		Tax:           summary.Tax,
		TotalPrice:    summary.GrandTotal,
		PaymentMethod: PaymentCOD,
		Status:        StatusPending,
	}

	if err := m.insertWithUniqueNumber(ctx, order); err != nil {
		return nil, err
	}

	logger.Info(ctx, "order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("grand_total", order.TotalPrice))

	m.publish(ctx, events.Event{
		Type:        events.TypeOrderPlaced,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		GrandTotal:  order.TotalPrice,
	})
	return order, nil
}

func (m *Manager) resolveUser(ctx context.Context, name, phone string) (*User, error) {
	user, err := m.repo.FindUserByPhone(ctx, phone)
	if err != nil {
		return nil, apperror.Internal("failed to look up customer", err)
	}
	if user != nil {
		return user, nil
	}

	user = &User{Name: name, Phone: phone}
	err = m.repo.CreateUser(ctx, user)
	if errors.Is(err, ErrDuplicate) {
		// another checkout created this phone first
		user, err = m.repo.FindUserByPhone(ctx, phone)
		if err == nil && user == nil {
			err = ErrNotFound
		}
	}
	if err != nil {
		return nil, apperror.Internal("failed to create customer", err)
	}
	return user, nil
}

// insertWithUniqueNumber assigns an order number not yet in use and inserts the order,
// drawing a fresh suffix when the number is taken or the insert loses a race for it.
func (m *Manager) insertWithUniqueNumber(ctx context.Context, order *Order) error {
	day := m.nowFunc().In(m.loc)
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		suffix, err := m.suffix()
		if err != nil {
			return apperror.Internal("failed to generate order number", err)
		}
		number := FormatNumber(day, suffix)

		exists, err := m.repo.OrderNumberExists(ctx, number)
		if err != nil {
			return apperror.Internal("failed to create order", err)
		}
		if exists {
			logger.Warn(ctx, "order number collision", zap.String("order_number", number))
			continue
		}

		order.OrderNumber = number
		err = m.repo.Create(ctx, order)
		if errors.Is(err, ErrDuplicate) {
			order.ID = uuid.Nil
			continue
		}
		if err != nil {
			return apperror.Internal("failed to create order", err)
		}
		return nil
	}
	return apperror.Conflict("order_number_exhausted", nil)
}

// ListOrders returns all orders, newest first.
func (m *Manager) ListOrders(ctx context.Context) ([]Order, error) {
	orders, err := m.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list orders", err)
	}
	return orders, nil
}

// ListOrdersByPhone returns the orders of the customer with phone. An unknown phone
// yields an empty slice, not an error.
func (m *Manager) ListOrdersByPhone(ctx context.Context, phone string) ([]Order, error) {
	phone = strings.TrimSpace(phone)
	if !validation.IsMobile(phone) {
		return nil, apperror.Validation(map[string]string{"phone": validation.MsgMobile})
	}

	user, err := m.repo.FindUserByPhone(ctx, phone)
	if err != nil {
		return nil, apperror.Internal("failed to look up customer", err)
	}
	if user == nil {
		return []Order{}, nil
	}

	orders, err := m.repo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal("failed to list orders", err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// GetOrder returns a single order.
func (m *Manager) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := m.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperror.NotFound("order_not_found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to get order", err)
	}
	return order, nil
}

// UpdateStatus moves an order to status following the transition table.
// Terminal orders reject every change; re-setting the current status is a no-op.
func (m *Manager) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Order, error) {
	next, err := ParseStatus(status)
	if err != nil {
		return nil, apperror.Validation(map[string]string{"status": "Unknown order status"})
	}

	order, err := m.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.transition(ctx, order, next)
}

// CancelOrder is customer self-service cancellation: the phone must match and the
// order must still be pending.
func (m *Manager) CancelOrder(ctx context.Context, id uuid.UUID, phone string) (*Order, error) {
	if !validation.IsMobile(phone) {
		return nil, apperror.Validation(map[string]string{"phone": validation.MsgMobile})
	}

	order, err := m.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	// a mismatched phone looks like a missing order to avoid leaking ids
	if order.Phone != phone {
		return nil, apperror.NotFound("order_not_found")
	}
	if order.Status != StatusPending {
		return nil, apperror.Conflict("order_not_cancellable", nil)
	}
	return m.transition(ctx, order, StatusCancelled)
}

func (m *Manager) transition(ctx context.Context, order *Order, next Status) (*Order, error) {
	prev := order.Status
	if prev == next {
		return order, nil
	}
	if !CanTransition(prev, next) {
		return nil, apperror.Conflict("invalid_transition", nil)
	}

	err := m.repo.UpdateStatus(ctx, order.ID, prev, next)
	if errors.Is(err, ErrStatusMismatch) {
		return nil, apperror.Conflict("status_changed_concurrently", err)
	}
	if err != nil {
		return nil, apperror.Internal("failed to update order", err)
	}

	order.Status = next
	logger.Info(ctx, "order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(prev)),
		zap.String("to", string(next)))

	m.publish(ctx, events.Event{
		Type:           events.TypeOrderStatusChanged,
		OrderID:        order.ID.String(),
		OrderNumber:    order.OrderNumber,
		Status:         string(next),
		PreviousStatus: string(prev),
	})
	return order, nil
}

// DeleteOrder hard-deletes an order.
func (m *Manager) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	err := m.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("order_not_found")
	}
	if err != nil {
		return apperror.Internal("failed to delete order", err)
	}
	m.publish(ctx, events.Event{Type: events.TypeOrderDeleted, OrderID: id.String()})
	return nil
}

func (m *Manager) publish(ctx context.Context, ev events.Event) {
	ev.OccurredAt = m.nowFunc().UTC()
	if err := m.events.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "failed to publish event",
			zap.String("event_type", ev.Type),
			zap.Error(err))
	}
}

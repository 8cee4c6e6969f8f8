package enquiries

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
	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

// Manager owns the enquiry lifecycle.
type Manager struct {
	repo      Repository
	validator *validation.Validator
	events    events.Publisher
	nowFunc   func() time.Time
}

func NewManager(repo Repository, v *validation.Validator, pub events.Publisher) *Manager {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Manager{repo: repo, validator: v, events: pub, nowFunc: time.Now}
}

// CreateEnquiry records a new enquiry. Only the phone is required.
func (m *Manager) CreateEnquiry(ctx context.Context, req validation.EnquiryRequest) (*Enquiry, error) {
	if errs := m.validator.Struct(req); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	e := &Enquiry{
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Email:        strings.TrimSpace(req.Email),
		Occasion:     strings.TrimSpace(req.Occasion),
		Budget:       strings.TrimSpace(req.Budget),
		DeliveryDate: req.DeliveryDate,
		Message:      strings.TrimSpace(req.Message),
		ImageURL:     req.ImageURL,
		Status:       StatusNew,
	}
	if err := m.repo.Create(ctx, e); err != nil {
		return nil, apperror.Internal("failed to create enquiry", err)
	}

	logger.Info(ctx, "enquiry created", zap.String("enquiry_id", e.ID.String()))
	ev := events.Event{Type: events.TypeEnquiryCreated, EnquiryID: e.ID.String(), OccurredAt: m.nowFunc().UTC()}
	if err := m.events.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "failed to publish event", zap.String("event_type", ev.Type), zap.Error(err))
	}
	return e, nil
}

// ListEnquiries returns every enquiry, newest first.
func (m *Manager) ListEnquiries(ctx context.Context) ([]Enquiry, error) {
	out, err := m.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list enquiries", err)
	}
	if out == nil {
		out = []Enquiry{}
	}
	return out, nil
}

// UpdateStatus sets the enquiry's status and returns the updated enquiry.
func (m *Manager) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Enquiry, error) {
	next, err := ParseStatus(status)
	if err != nil {
		return nil, apperror.Validation(map[string]string{"status": "Unknown enquiry status"})
	}

	err = m.repo.UpdateStatus(ctx, id, next)
	if errors.Is(err, ErrNotFound) {
		return nil, apperror.NotFound("enquiry_not_found")
	}
	if err != nil {
		return nil, apperror.Internal("failed to update enquiry", err)
	}

	e, err := m.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to load enquiry", err)
	}
	return e, nil
}

// DeleteEnquiry hard-deletes an enquiry.
func (m *Manager) DeleteEnquiry(ctx context.Context, id uuid.UUID) error {
	err := m.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("enquiry_not_found")
	}
	if err != nil {
		return apperror.Internal("failed to delete enquiry", err)
	}
	return nil
}

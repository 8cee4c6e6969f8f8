package enquiries

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/bakery-storefront/internal/apperror"
	"github.com/imrishuroy/bakery-storefront/internal/events"
	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

type memRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*Enquiry
	err  error
}

func newMemRepo() *memRepo { return &memRepo{rows: map[uuid.UUID]*Enquiry{}} }

func (r *memRepo) Create(_ context.Context, e *Enquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	_ = e.BeforeCreate(nil)
	cp := *e
	r.rows[e.ID] = &cp
	return nil
}

func (r *memRepo) FindAll(context.Context) ([]Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Enquiry
	for _, e := range r.rows {
		out = append(out, *e)
	}
	return out, nil
}

func (r *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	e.Status = status
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type capturePublisher struct{ got []events.Event }

func (p *capturePublisher) Publish(_ context.Context, ev events.Event) error {
	p.got = append(p.got, ev)
	return nil
}

func TestCreateEnquiry_OnlyPhoneRequired(t *testing.T) {
	pub := &capturePublisher{}
	m := NewManager(newMemRepo(), validation.New(), pub)

	e, err := m.CreateEnquiry(context.Background(), validation.EnquiryRequest{Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, StatusNew, e.Status)
	require.Len(t, pub.got, 1)
	assert.Equal(t, events.TypeEnquiryCreated, pub.got[0].Type)
	assert.Equal(t, e.ID.String(), pub.got[0].EnquiryID)
}

func TestCreateEnquiry_InvalidFields(t *testing.T) {
	m := NewManager(newMemRepo(), validation.New(), nil)

	_, err := m.CreateEnquiry(context.Background(), validation.EnquiryRequest{
		Phone: "12345",
		Email: "not-an-email",
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Contains(t, appErr.Fields, "phone")
	assert.Contains(t, appErr.Fields, "email")
}

func TestCreateEnquiry_PersistenceError(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection refused")
	m := NewManager(repo, validation.New(), nil)

	_, err := m.CreateEnquiry(context.Background(), validation.EnquiryRequest{Phone: "9876543210"})
	assert.Equal(t, http.StatusInternalServerError, apperror.Status(err))
}

func TestUpdateStatus_AnyToAny(t *testing.T) {
	m := NewManager(newMemRepo(), validation.New(), nil)
	ctx := context.Background()

	e, err := m.CreateEnquiry(ctx, validation.EnquiryRequest{Phone: "9876543210"})
	require.NoError(t, err)

	for _, s := range []string{"closed", "new", "converted", "contacted"} {
		got, err := m.UpdateStatus(ctx, e.ID, s)
		require.NoError(t, err, s)
		assert.Equal(t, Status(s), got.Status)
	}

	_, err = m.UpdateStatus(ctx, e.ID, "archived")
	assert.Equal(t, http.StatusBadRequest, apperror.Status(err))

	_, err = m.UpdateStatus(ctx, uuid.New(), "closed")
	assert.Equal(t, http.StatusNotFound, apperror.Status(err))
}

func TestDeleteEnquiry(t *testing.T) {
	m := NewManager(newMemRepo(), validation.New(), nil)
	ctx := context.Background()

	e, err := m.CreateEnquiry(ctx, validation.EnquiryRequest{Phone: "9876543210"})
	require.NoError(t, err)

	require.NoError(t, m.DeleteEnquiry(ctx, e.ID))
	assert.Equal(t, http.StatusNotFound, apperror.Status(m.DeleteEnquiry(ctx, e.ID)))

	list, err := m.ListEnquiries(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

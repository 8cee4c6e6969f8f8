package orders

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/imrishuroy/bakery-storefront/internal/events"
)

// memRepo is an in-memory Repository for manager tests.
type memRepo struct {
	mu     sync.Mutex
	users  map[string]*User
	orders map[uuid.UUID]*Order

	createErr       error
	updateErr       error
	takenNumbers    map[string]bool
	createUserCalls int
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:        map[string]*User{},
		orders:       map[uuid.UUID]*Order{},
		takenNumbers: map[string]bool{},
	}
}

func (r *memRepo) FindUserByPhone(_ context.Context, phone string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[phone]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memRepo) CreateUser(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createUserCalls++
	if _, ok := r.users[user.Phone]; ok {
		return ErrDuplicate
	}
	_ = user.BeforeCreate(nil)
	cp := *user
	r.users[user.Phone] = &cp
	return nil
}

func (r *memRepo) OrderNumberExists(_ context.Context, number string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.takenNumbers[number] {
		return true, nil
	}
	for _, o := range r.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) Create(_ context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	_ = order.BeforeCreate(nil)
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *memRepo) FindAll(context.Context) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id uuid.UUID, expected, next Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	o, ok := r.orders[id]
	if !ok || o.Status != expected {
		return ErrStatusMismatch
	}
	o.Status = next
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev.Type)
	return p.err
}

package handlers

import (
	"context"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/imrishuroy/bakery-storefront/internal/enquiries"
	"github.com/imrishuroy/bakery-storefront/internal/orders"
	"github.com/imrishuroy/bakery-storefront/internal/products"
)

type fakeOrderRepo struct {
	mu      sync.Mutex
	users   map[string]orders.User
	orders  map[uuid.UUID]orders.Order
	creates int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{users: map[string]orders.User{}, orders: map[uuid.UUID]orders.Order{}}
}

func (r *fakeOrderRepo) FindUserByPhone(_ context.Context, phone string) (*orders.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[phone]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) CreateUser(_ context.Context, u *orders.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = uuid.New()
	r.users[u.Phone] = *u
	return nil
}

func (r *fakeOrderRepo) OrderNumberExists(context.Context, string) (bool, error) { return false, nil }

func (r *fakeOrderRepo) Create(_ context.Context, o *orders.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	o.ID = uuid.New()
	r.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) FindAll(context.Context) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []orders.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByUserID(_ context.Context, id uuid.UUID) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []orders.Order
	for _, o := range r.orders {
		if o.UserID == id {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, expected, next orders.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != expected {
		return orders.ErrStatusMismatch
	}
	o.Status = next
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return orders.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

type fakeEnquiryRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]enquiries.Enquiry
}

func (r *fakeEnquiryRepo) Create(_ context.Context, e *enquiries.Enquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.New()
	r.rows[e.ID] = *e
	return nil
}

func (r *fakeEnquiryRepo) FindAll(context.Context) ([]enquiries.Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []enquiries.Enquiry
	for _, e := range r.rows {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEnquiryRepo) FindByID(_ context.Context, id uuid.UUID) (*enquiries.Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok {
		return nil, enquiries.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEnquiryRepo) UpdateStatus(_ context.Context, id uuid.UUID, s enquiries.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok {
		return enquiries.ErrNotFound
	}
	e.Status = s
	r.rows[id] = e
	return nil
}

func (r *fakeEnquiryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return enquiries.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeProductRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]products.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *products.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Slug == p.Slug {
			return products.ErrDuplicate
		}
	}
	p.ID = uuid.New()
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, category string) ([]products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []products.Product
	for _, p := range r.rows {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, products.ErrNotFound
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *products.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return products.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// fakeDynamo backs the idempotency store with a map keyed by idempotency_key.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func (d *fakeDynamo) PutItem(_ context.Context, in *dyn.PutItemInput, _ ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := in.Item["idempotency_key"].(*types.AttributeValueMemberS).Value
	if _, ok := d.items[k]; ok && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{}
	}
	d.items[k] = in.Item
	return &dyn.PutItemOutput{}, nil
}

func (d *fakeDynamo) GetItem(_ context.Context, in *dyn.GetItemInput, _ ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := in.Key["idempotency_key"].(*types.AttributeValueMemberS).Value
	return &dyn.GetItemOutput{Item: d.items[k]}, nil
}

func (d *fakeDynamo) UpdateItem(_ context.Context, in *dyn.UpdateItemInput, _ ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := in.Key["idempotency_key"].(*types.AttributeValueMemberS).Value
	item := d.items[k]
	for placeholder, attr := range map[string]string{
		":st": "status", ":oid": "order_id", ":rb": "response_body", ":rs": "response_status", ":n": "note",
	} {
		if v, ok := in.ExpressionAttributeValues[placeholder]; ok {
			item[attr] = v
		}
	}
	return &dyn.UpdateItemOutput{}, nil
}

package cart

import (
	"context"
	"sync"

	"github.com/imrishuroy/bakery-storefront/internal/pricing"
)

// StoreName prefixes every persisted cart key.
const StoreName = "bakery-cart"

// Store persists carts per client session.
type Store interface {
	// Load returns the session's cart, or an empty cart if none is stored.
	Load(ctx context.Context, session string) (*Cart, error)
	Save(ctx context.Context, session string, c *Cart) error
	Delete(ctx context.Context, session string) error
}

// Key returns the storage key for a session.
func Key(session string) string {
	return StoreName + ":" + session
}

// MemoryStore keeps carts in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]pricing.LineItem
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[string][]pricing.LineItem{}}
}

func (m *MemoryStore) Load(_ context.Context, session string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.carts[Key(session)]
	return &Cart{Items: append([]pricing.LineItem(nil), items...)}, nil
}

func (m *MemoryStore) Save(_ context.Context, session string, c *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[Key(session)] = append([]pricing.LineItem(nil), c.Items...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, Key(session))
	return nil
}

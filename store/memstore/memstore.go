// Package memstore is an in-memory session store. It lives for the process
// lifetime only, the Go analog of session-scoped browser storage.
package memstore

import (
	"context"
	"sync"

	"github.com/spindo/spindo-client-go/store"
)

// MemStore is an in-memory implementation of store.Store.
type MemStore struct {
	mu     sync.RWMutex
	tokens store.TokenPair
	user   store.Identity
	set    bool
}

// New creates an empty MemStore.
func New() *MemStore {
	return &MemStore{}
}

var _ store.Store = (*MemStore)(nil)

// Save overwrites any existing record.
func (m *MemStore) Save(_ context.Context, tokens store.TokenPair, user store.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = tokens
	m.user = user
	m.set = true
	return nil
}

// Load returns the stored record or store.ErrNoSession.
func (m *MemStore) Load(ctx context.Context) (store.TokenPair, store.Identity, error) {
	m.mu.RLock()
	tokens, user, set := m.tokens, m.user, m.set
	m.mu.RUnlock()

	if !set {
		return store.TokenPair{}, store.Identity{}, store.ErrNoSession
	}
	if !tokens.Complete() || !user.Role.Valid() {
		// Never hand back a partial session.
		_ = m.Clear(ctx)
		return store.TokenPair{}, store.Identity{}, store.ErrNoSession
	}
	return tokens, user, nil
}

// Clear removes the record. Idempotent.
func (m *MemStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = store.TokenPair{}
	m.user = store.Identity{}
	m.set = false
	return nil
}

package cart

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
)

// Manager hands out one Aggregator per authenticated user and tears it down
// at logout. Cart state is never ambient: everything flows through an
// explicit aggregator with a session lifecycle.
type Manager struct {
	mu     sync.Mutex
	remote RemoteCart
	carts  map[uuid.UUID]*Aggregator
}

// NewManager builds a cart manager backed by the remote mirror.
func NewManager(remote RemoteCart) (*Manager, error) {
	if remote == nil {
		return nil, fmt.Errorf("remote cart required")
	}
	return &Manager{
		remote: remote,
		carts:  make(map[uuid.UUID]*Aggregator),
	}, nil
}

// ForUser returns the user's aggregator, creating it on first use. Cart
// mutations require an authenticated context.
func (m *Manager) ForUser(userID uuid.UUID) (*Aggregator, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not authenticated")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if agg, ok := m.carts[userID]; ok {
		return agg, nil
	}
	agg := newAggregator(userID, m.remote)
	m.carts[userID] = agg
	return agg, nil
}

// Teardown discards the user's aggregator, typically at logout or when the
// upstream rejects the session token.
func (m *Manager) Teardown(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
}

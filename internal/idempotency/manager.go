// Package idempotency issues the request keys attached to payment attempts.
// One key lives for the whole lifetime of one logical attempt: every retry of
// that attempt carries the same value, so the pay service can collapse
// duplicate deliveries into a single effect. Only a confirmed success rotates
// the key.
package idempotency

import (
	"sync"

	"github.com/google/uuid"
)

// Manager holds one pending key per scope. Scopes are auction ids here, so a
// retried settlement reuses its key while settlements of different auctions
// never share one.
type Manager struct {
	mu   sync.Mutex
	keys map[string]string
}

func NewManager() *Manager {
	return &Manager{keys: make(map[string]string)}
}

// Current returns the pending key for the scope, generating one on first use.
func (m *Manager) Current(scope string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.keys[scope]
	if !ok {
		key = uuid.New().String()
		m.keys[scope] = key
	}
	return key
}

// Rotate discards the scope's pending key so the next attempt gets a fresh
// one. Called exactly once per confirmed-successful payment, never on failure.
func (m *Manager) Rotate(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keys, scope)
}

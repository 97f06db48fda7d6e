// Package session owns the current-user singleton: the one record mirroring
// the authenticated identity, kept separately from the full user directory.
package session

import (
	"github.com/nexushq/nexus-core/internal/kvstore"
	"github.com/nexushq/nexus-core/pkg/schema"
)

// Manager is the sole writer of the session pointer. All other components
// read through it; none mutate it directly.
type Manager struct {
	store kvstore.Store
}

func NewManager(s kvstore.Store) *Manager {
	return &Manager{store: s}
}

// Current returns the persisted session user, if any.
func (m *Manager) Current() (schema.User, bool, error) {
	var u schema.User
	ok, err := m.store.Get(kvstore.KeyCurrentUser, &u)
	if err != nil || !ok {
		return schema.User{}, ok, err
	}
	return u, true, nil
}

// Set records u as the session user.
func (m *Manager) Set(u schema.User) error {
	return m.store.Put(kvstore.KeyCurrentUser, u)
}

// Clear removes the session pointer. Directory entries are untouched.
// Clearing an already-absent session is a no-op: the surrounding UI defers
// logout by several seconds, so this can legitimately fire after the
// session has already gone away.
func (m *Manager) Clear() error {
	return m.store.Delete(kvstore.KeyCurrentUser)
}

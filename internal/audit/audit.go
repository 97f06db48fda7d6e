// Package audit keeps the append-only log of workspace actions, stored
// newest-first under a single collection key.
package audit

import (
	"github.com/jonboulle/clockwork"
	"github.com/segmentio/ksuid"

	"github.com/nexushq/nexus-core/internal/kvstore"
	"github.com/nexushq/nexus-core/pkg/schema"
)

// Log prepends immutable entries keyed by actor. Growth is unbounded by
// default, matching the source behavior; WithMaxEntries is the documented
// opt-in cap.
type Log struct {
	store kvstore.Store
	clock clockwork.Clock
	max   int
}

func New(s kvstore.Store, clock clockwork.Clock) *Log {
	return &Log{store: s, clock: clock}
}

// WithMaxEntries caps the stored log at n entries, dropping the oldest.
func (l *Log) WithMaxEntries(n int) *Log {
	l.max = n
	return l
}

// Append prepends a new entry so the stored order is newest-first.
func (l *Log) Append(action, details, userID string) (schema.AuditEntry, error) {
	entries, err := l.All()
	if err != nil {
		return schema.AuditEntry{}, err
	}
	entry := schema.AuditEntry{
		ID:        ksuid.New().String(),
		Timestamp: l.clock.Now(),
		Action:    action,
		Details:   details,
		UserID:    userID,
	}
	entries = append([]schema.AuditEntry{entry}, entries...)
	if l.max > 0 && len(entries) > l.max {
		entries = entries[:l.max]
	}
	if err := l.store.Put(kvstore.KeyAuditLog, entries); err != nil {
		return schema.AuditEntry{}, err
	}
	return entry, nil
}

// All returns every entry in stored (newest-first) order.
func (l *Log) All() ([]schema.AuditEntry, error) {
	var entries []schema.AuditEntry
	if _, err := l.store.Get(kvstore.KeyAuditLog, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

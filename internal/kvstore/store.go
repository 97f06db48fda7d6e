// Package kvstore is the persistence adapter for the workspace: a durable
// string-keyed store holding one JSON document per logical collection.
package kvstore

import (
	"errors"
	"fmt"
)

// ErrStorage marks a write or serialization failure in the adapter. Writes
// must surface it to the caller; a failed write is fatal to the triggering
// operation but never corrupts other keys.
var ErrStorage = errors.New("storage failure")

// Well-known collection keys. One key per logical collection; every value is
// a JSON-serialized object or array with dates as RFC 3339 strings.
const (
	KeyCurrentUser = "nexus_current_user"
	KeyUsers       = "nexus_users_db"
	KeyChannels    = "nexus_channels"
	KeyContacts    = "nexus_contacts"
	KeyAuditLog    = "nexus_audit_logs"
	KeyAPIKey      = "nexus_api_key"
	KeyBotConfig   = "nexus_bot_config"
)

// Store is the contract both backends implement. Get reports absence with
// (false, nil) rather than an error; Put either succeeds fully or returns an
// error wrapping ErrStorage. There is no partial update and no transaction:
// racing writers on one key resolve last-write-wins.
type Store interface {
	// Put serializes v to JSON and replaces the value under key.
	Put(key string, v any) error
	// Get deserializes the value under key into out, reporting presence.
	Get(key string, out any) (bool, error)
	// GetRaw returns the stored JSON bytes under key, reporting presence.
	GetRaw(key string) ([]byte, bool, error)
	// PutRaw replaces the value under key with pre-serialized bytes.
	PutRaw(key string, data []byte) error
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
	// Keys lists every stored key.
	Keys() ([]string, error)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

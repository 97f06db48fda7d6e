package vault

import (
	"github.com/nexushq/nexus-core/internal/kvstore"
)

// Keyring stores the AI provider API key sealed under the master key.
type Keyring struct {
	store     kvstore.Store
	masterKey []byte
}

func NewKeyring(s kvstore.Store, masterKey []byte) (*Keyring, error) {
	if len(masterKey) != 32 {
		return nil, ErrKeySize
	}
	return &Keyring{store: s, masterKey: masterKey}, nil
}

// SaveAPIKey seals and persists the provider API key.
func (k *Keyring) SaveAPIKey(apiKey string) error {
	sealed, err := Seal(apiKey, k.masterKey)
	if err != nil {
		return err
	}
	return k.store.Put(kvstore.KeyAPIKey, sealed)
}

// LoadAPIKey returns the stored provider API key, reporting presence.
func (k *Keyring) LoadAPIKey() (string, bool, error) {
	var sealed string
	ok, err := k.store.Get(kvstore.KeyAPIKey, &sealed)
	if err != nil || !ok {
		return "", ok, err
	}
	apiKey, err := Open(sealed, k.masterKey)
	if err != nil {
		return "", true, err
	}
	return apiKey, true, nil
}

package kvstore

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var workspaceBucket = []byte("Workspace")

// Bolt is the durable backend, a single-file bbolt database with one bucket.
// It is the stand-in for the browser origin storage the product originally
// persisted to: same key layout, same JSON values.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens (creating if needed) the store file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(workspaceBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Close releases the underlying database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return storageErr("marshal "+key, err)
	}
	return b.PutRaw(key, raw)
}

func (b *Bolt) PutRaw(key string, data []byte) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(workspaceBucket).Put([]byte(key), data)
	})
	if err != nil {
		return storageErr("put "+key, err)
	}
	return nil
}

func (b *Bolt) Get(key string, out any) (bool, error) {
	raw, ok, err := b.GetRaw(key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, storageErr("unmarshal "+key, err)
	}
	return true, nil
}

func (b *Bolt) GetRaw(key string) ([]byte, bool, error) {
	var raw []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(workspaceBucket).Get([]byte(key)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, storageErr("get "+key, err)
	}
	if raw == nil {
		return nil, false, nil
	}
	return raw, true, nil
}

func (b *Bolt) Delete(key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(workspaceBucket).Delete([]byte(key))
	})
	if err != nil {
		return storageErr("delete "+key, err)
	}
	return nil
}

func (b *Bolt) Keys() ([]string, error) {
	var list []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(workspaceBucket).ForEach(func(k, _ []byte) error {
			list = append(list, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, storageErr("keys", err)
	}
	return list, nil
}

package kvstore

import (
	"encoding/json"
	"sync"
)

// Memory is the in-process backend. Values are held as serialized JSON so a
// Put/Get cycle round-trips exactly like the durable backend.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory initializes an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return storageErr("marshal "+key, err)
	}
	return m.PutRaw(key, raw)
}

func (m *Memory) PutRaw(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *Memory) Get(key string, out any) (bool, error) {
	raw, ok, err := m.GetRaw(key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, storageErr("unmarshal "+key, err)
	}
	return true, nil
}

func (m *Memory) GetRaw(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate the stored value.
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, true, nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var list []string
	for k := range m.data {
		list = append(list, k)
	}
	return list, nil
}

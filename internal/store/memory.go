package store

import (
	"encoding/json"
	"strings"
	"sync"
)

// MemoryBackend is a thread-safe, in-memory Backend backed by a simple map.
// It remembers insertion order so List returns resources in the order they
// were created, which is the contract the cluster's list verb exposes.
type MemoryBackend struct {
	mu    sync.RWMutex
	data  map[string][]byte // key -> JSON bytes
	order []string          // keys in insertion order
}

// NewMemoryBackend creates a ready-to-use in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string][]byte),
	}
}

// ---------- CRUD ----------

func (m *MemoryBackend) Create(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; exists {
		return ErrAlreadyExists
	}
	m.data[key] = raw
	m.order = append(m.order, key)
	return nil
}

func (m *MemoryBackend) Get(key string, target interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[key]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, target)
}

func (m *MemoryBackend) Update(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		return ErrNotFound
	}
	// Update keeps the key's original position in the insertion order.
	m.data[key] = raw
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		return ErrNotFound
	}
	delete(m.data, key)

	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// ---------- List ----------

func (m *MemoryBackend) List(prefix string, factory func() interface{}) ([]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []interface{}
	for _, k := range m.order {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		obj := factory()
		if err := json.Unmarshal(m.data[k], obj); err != nil {
			return nil, err
		}
		results = append(results, obj)
	}
	return results, nil
}

// ---------- Reset / Close ----------

func (m *MemoryBackend) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string][]byte)
	m.order = nil
	return nil
}

func (m *MemoryBackend) Close() error {
	return m.Reset()
}

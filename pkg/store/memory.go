package store

import "sync"

// MemoryStore is an in-process Store, used in tests and as the fallback when
// no durable backend is configured.
type MemoryStore struct {
	mutex sync.RWMutex
	data  map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load reads the bytes for key, reporting ErrKeyNotFound for absent keys.
func (ms *MemoryStore) Load(key string) ([]byte, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	data, ok := ms.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save stores a copy of data under key.
func (ms *MemoryStore) Save(key string, data []byte) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	ms.data[key] = stored
	return nil
}

// Delete removes the key.
func (ms *MemoryStore) Delete(key string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	delete(ms.data, key)
	return nil
}

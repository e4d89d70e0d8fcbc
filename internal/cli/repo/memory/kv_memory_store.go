package memory

import (
	"sync"

	"ClinicDesk/internal/cli/repo"
)

// KVStore keeps a session tier in process memory. It is lost when the process exits.
type KVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ repo.KVStore = (*KVStore)(nil)

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

func (s *KVStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok || v == "" {
		return "", repo.ErrNotFound
	}
	return v, nil
}

func (s *KVStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *KVStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

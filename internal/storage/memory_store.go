package storage

import (
	"context"
	"sync"

	"storybook-server/internal/models"
)

var _ Store = (*memoryStore)(nil)

// memoryStore держит все в map. Используется в тестах и как запасной
// вариант, когда внешний бэкенд не сконфигурирован.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemoryStore creates an in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string]map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns, ok := s.data[namespace]
	if !ok {
		return nil, models.ErrKeyNotFound
	}
	val, ok := ns[key]
	if !ok {
		return nil, models.ErrKeyNotFound
	}
	// Копия, чтобы вызывающий не мутировал хранимое значение.
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (s *memoryStore) Set(_ context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.data[namespace] = ns
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	ns[key] = stored
	return nil
}

func (s *memoryStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.data[namespace]; ok {
		delete(ns, key)
	}
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

// internal/content/store.go
package content

import (
	"errors"
	"sync"

	"twig/shared/utils"
)

var ErrContentNotFound = errors.New("content not found")

// MemoryStore keeps objects in a map. Used where no on-disk store is needed.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(content []byte) (string, error) {
	hash := utils.HashContent(content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[hash]; !ok {
		s.objects[hash] = append([]byte{}, content...)
	}
	return hash, nil
}

func (s *MemoryStore) Get(hash string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.objects[hash]
	if !ok {
		return nil, ErrContentNotFound
	}
	return append([]byte{}, c...), nil
}

func (s *MemoryStore) Has(hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[hash]
	return ok, nil
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

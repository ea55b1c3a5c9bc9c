// internal/branch/storage/store.go
package storage

import (
	"fmt"

	"twig/internal/branch"
	"twig/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

const registryID = "registry"

type Store struct {
	store *storage.BadgerStore
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		store: storage.NewBadgerStore(db, "branch"),
	}
}

// registryEntity wraps branch.Registry to implement storage.Entity
type registryEntity struct {
	*branch.Registry
}

func (r *registryEntity) GetID() string {
	return registryID
}

func validate(r *branch.Registry) error {
	if r.Current == "" {
		return fmt.Errorf("current branch is required")
	}
	if !r.Has(r.Current) {
		return fmt.Errorf("current branch %q has no tip", r.Current)
	}
	return nil
}

// Load reads the registry written by the last Save.
func (s *Store) Load() (*branch.Registry, error) {
	entity := registryEntity{Registry: &branch.Registry{}}
	if err := s.store.Get(registryID, &entity); err != nil {
		return nil, fmt.Errorf("getting branch registry: %w", err)
	}
	if entity.Branches == nil {
		entity.Branches = map[string]string{}
	}
	return entity.Registry, nil
}

// Write validates r and returns it as a write for storage.Update, so it can
// be saved together with other state.
func (s *Store) Write(r *branch.Registry) (storage.Write, error) {
	if err := validate(r); err != nil {
		return storage.Write{}, fmt.Errorf("invalid branch registry: %w", err)
	}
	return storage.Write{Store: s.store, Entity: &registryEntity{Registry: r}}, nil
}

// Save replaces the stored registry wholesale.
func (s *Store) Save(r *branch.Registry) error {
	w, err := s.Write(r)
	if err != nil {
		return err
	}
	if err := s.store.Put(w.Entity); err != nil {
		return fmt.Errorf("saving branch registry: %w", err)
	}
	return nil
}

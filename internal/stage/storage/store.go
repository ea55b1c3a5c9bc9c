// internal/stage/storage/store.go
package storage

import (
	"errors"
	"fmt"

	"twig/internal/stage"
	"twig/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

const areaID = "index"

type Store struct {
	store *storage.BadgerStore
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		store: storage.NewBadgerStore(db, "stage"),
	}
}

// areaEntity wraps stage.Area to implement storage.Entity
type areaEntity struct {
	*stage.Area
}

func (a *areaEntity) GetID() string {
	return areaID
}

// Load returns the persisted staging area, or an empty one if none was saved.
func (s *Store) Load() (*stage.Area, error) {
	entity := areaEntity{Area: stage.New()}
	if err := s.store.Get(areaID, &entity); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return stage.New(), nil
		}
		return nil, fmt.Errorf("getting staging area: %w", err)
	}

	if entity.Added == nil {
		entity.Added = map[string]string{}
	}
	if entity.Removed == nil {
		entity.Removed = map[string]string{}
	}
	return entity.Area, nil
}

// Write returns a as a write for storage.Update.
func (s *Store) Write(a *stage.Area) storage.Write {
	return storage.Write{Store: s.store, Entity: &areaEntity{Area: a}}
}

// Save replaces the stored staging area wholesale.
func (s *Store) Save(a *stage.Area) error {
	if err := s.store.Put(s.Write(a).Entity); err != nil {
		return fmt.Errorf("saving staging area: %w", err)
	}
	return nil
}

// Package favorites maintains the bounded, deduplicated list of bookmarked
// countries and persists it as one JSON blob per store scope.
//
// Each successful mutation rewrites the whole blob synchronously. There is no
// batching and no partial write.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/kvstore"
)

// Capacity is the maximum number of favorites.
const Capacity = 5

// StorageKey is the store key holding the favorites blob.
const StorageKey = entities.KeyFavoriteCountries

// ErrCapacityExceeded is returned when adding to a full collection.
var ErrCapacityExceeded = errors.New("you can only have up to 5 favorite countries")

// Contains reports whether a country with code is in list.
func Contains(list []entities.Country, code string) bool {
	return indexOf(list, code) >= 0
}

func indexOf(list []entities.Country, code string) int {
	for i, c := range list {
		if c.Code == code {
			return i
		}
	}
	return -1
}

// Toggle removes candidate from current if present, otherwise appends it.
// When current is already at Capacity the addition fails with
// ErrCapacityExceeded and current is returned unchanged. The input slice is
// never modified.
func Toggle(current []entities.Country, candidate entities.Country) ([]entities.Country, error) {
	if i := indexOf(current, candidate.Code); i >= 0 {
		next := make([]entities.Country, 0, len(current)-1)
		next = append(next, current[:i]...)
		return append(next, current[i+1:]...), nil
	}

	if len(current) >= Capacity {
		return current, ErrCapacityExceeded
	}

	next := make([]entities.Country, 0, len(current)+1)
	next = append(next, current...)
	return append(next, candidate), nil
}

// Manager reads and writes favorites through a kvstore.Store.
type Manager struct {
	// OnAdd is called after a country has been added and persisted.
	OnAdd func(entities.Country)
}

func NewManager() *Manager {
	return &Manager{}
}

// Load returns the persisted favorites. A missing or unparsable blob yields
// an empty list; the parse failure is logged.
func (m *Manager) Load(store kvstore.Store) []entities.Country {
	raw, err := store.Get(StorageKey)
	if errors.Is(err, kvstore.ErrNotFound) || raw == "" {
		return []entities.Country{}
	}
	if err != nil {
		log.Printf("Warning: could not read favorites: %v", err)
		return []entities.Country{}
	}

	var list []entities.Country
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("Warning: malformed favorites data, treating as empty: %v", err)
		return []entities.Country{}
	}
	if list == nil {
		list = []entities.Country{}
	}
	return list
}

// Save overwrites the persisted blob with list.
func (m *Manager) Save(store kvstore.Store, list []entities.Country) error {
	if list == nil {
		list = []entities.Country{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := store.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}

// Toggle loads the collection, applies Toggle and persists the result on
// success. added reports whether candidate is now a favorite. On
// ErrCapacityExceeded nothing is written and the loaded list is returned.
func (m *Manager) Toggle(store kvstore.Store, candidate entities.Country) (list []entities.Country, added bool, err error) {
	current := m.Load(store)

	next, err := Toggle(current, candidate)
	if err != nil {
		return current, false, err
	}

	if err := m.Save(store, next); err != nil {
		return current, Contains(current, candidate.Code), err
	}

	added = Contains(next, candidate.Code)
	if added && m.OnAdd != nil {
		m.OnAdd(candidate)
	}
	return next, added, nil
}

// Remove deletes code from the collection if present. Removing an absent
// code is a no-op that does not touch the store.
func (m *Manager) Remove(store kvstore.Store, code string) ([]entities.Country, error) {
	current := m.Load(store)
	i := indexOf(current, code)
	if i < 0 {
		return current, nil
	}

	next, _ := Toggle(current, current[i])
	if err := m.Save(store, next); err != nil {
		return current, err
	}
	return next, nil
}

package database

import "github.com/mrlokans/atlas/internal/kvstore"

// ScopedStore pins a Database to a single scope and satisfies kvstore.Store.
type ScopedStore struct {
	db    *Database
	scope string
}

var _ kvstore.Store = (*ScopedStore)(nil)

// Scope returns a kvstore.Store restricted to the given scope.
func (d *Database) Scope(scope string) *ScopedStore {
	return &ScopedStore{db: d, scope: scope}
}

func (s *ScopedStore) Get(key string) (string, error) {
	return s.db.GetValue(s.scope, key)
}

func (s *ScopedStore) Set(key, value string) error {
	return s.db.SetValue(s.scope, key, value)
}

// Name returns the scope identifier.
func (s *ScopedStore) Name() string {
	return s.scope
}

// Package settingsstore resolves runtime settings with the priority
// database > environment > default. Database overrides live in the
// entities.ScopeSystem scope of the key-value store.
package settingsstore

import (
	"errors"
	"os"

	"github.com/mrlokans/atlas/internal/database"
	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/kvstore"
)

// Setting sources
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

type SettingsStore struct {
	db *database.Database
}

func New(db *database.Database) *SettingsStore {
	return &SettingsStore{db: db}
}

// resolve returns the effective value of key and where it came from.
func (s *SettingsStore) resolve(key, envVar, fallback string) (string, string) {
	if value, err := s.db.GetValue(entities.ScopeSystem, key); err == nil && value != "" {
		return value, SourceDatabase
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal, SourceEnvironment
	}
	return fallback, SourceDefault
}

func (s *SettingsStore) set(key, value string) error {
	return s.db.SetValue(entities.ScopeSystem, key, value)
}

func (s *SettingsStore) get(key string) string {
	value, err := s.db.GetValue(entities.ScopeSystem, key)
	if err != nil {
		return ""
	}
	return value
}

// clear removes database overrides for keys. Missing keys are ignored.
func (s *SettingsStore) clear(keys ...string) error {
	for _, key := range keys {
		if err := s.db.DeleteValue(entities.ScopeSystem, key); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
			return err
		}
	}
	return nil
}

func parseBool(value string) bool {
	return value == "true" || value == "1"
}

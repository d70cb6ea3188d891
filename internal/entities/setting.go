package entities

import (
	"time"
)

// KVEntry is one value in the scoped key-value store.
// Scope is the visitor id for browser sessions, or a fixed name for the CLI.
type KVEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Scope     string    `gorm:"uniqueIndex:idx_kv_scope_key;size:64;not null" json:"scope"`
	Key       string    `gorm:"uniqueIndex:idx_kv_scope_key;size:100;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// Known keys
const (
	KeyFavoriteCountries = "favoriteCountries"
)

// Scopes that do not belong to a browser visitor
const (
	ScopeCLI    = "_cli"
	ScopeSystem = "_system"
)

// Keys in ScopeSystem
const (
	SettingKeyCatalogRefreshEnabled     = "catalog_refresh_enabled"
	SettingKeyCatalogRefreshSchedule    = "catalog_refresh_schedule"
	SettingKeyCatalogRefreshLastAt      = "catalog_refresh_last_at"
	SettingKeyCatalogRefreshLastStatus  = "catalog_refresh_last_status"
	SettingKeyCatalogRefreshLastMessage = "catalog_refresh_last_message"
	SettingKeyCatalogRefreshCountries   = "catalog_refresh_countries"
)

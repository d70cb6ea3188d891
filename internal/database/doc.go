// Package database provides the sqlite-backed key-value store.
//
// # Layout
//
//	database/
//	├── database.go  # Connection setup, migrations, scoped get/set
//	└── scope.go     # ScopedStore: a kvstore.Store pinned to one scope
//
// Every value lives in the kv_entries table under a (scope, key) pair. Browser
// visitors get their own scope (the visitor id from the session), the CLI uses
// entities.ScopeCLI and runtime settings use entities.ScopeSystem.
//
// # Usage
//
//	db, err := database.NewDatabase("./atlas.db")
//	store := db.Scope(visitorID)
//	err = store.Set(entities.KeyFavoriteCountries, blob)
package database

package tasks

import (
	"path/filepath"
	"time"
)

// Config sizes the flag prefetch workers.
type Config struct {
	Workers         int
	// ReleaseAfter hands a claimed task back to the queue when its worker
	// has not finished it in time.
	ReleaseAfter    time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns the default task queue settings.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// TasksDBPath derives the task database location from the main database path
// by adding a "-tasks" suffix before the extension.
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return mainDBPath[:len(mainDBPath)-len(ext)] + "-tasks" + ext
}

package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/mrlokans/atlas/internal/entities"
)

const (
	QueuePrefetchFlag     = "prefetch_flag"
	QueuePrefetchAllFlags = "prefetch_all_flags"
)

// FlagFetcher downloads and caches a flag image.
type FlagFetcher interface {
	Get(ctx context.Context, code, flagURL string) (string, error)
}

// CatalogSource exposes the loaded country catalog.
type CatalogSource interface {
	Catalog() ([]entities.Country, bool)
}

// PrefetchFlagTask caches the flag of a single country.
type PrefetchFlagTask struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

// Config returns the queue configuration for single flag prefetches.
func (t PrefetchFlagTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueuePrefetchFlag,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PrefetchFlagProcessor creates a processor function for PrefetchFlagTask.
func PrefetchFlagProcessor(fetcher FlagFetcher) backlite.QueueProcessor[PrefetchFlagTask] {
	return func(ctx context.Context, task PrefetchFlagTask) error {
		if fetcher == nil {
			return fmt.Errorf("flag cache not configured")
		}
		if task.URL == "" {
			log.Printf("[TASK] No flag URL for %s, skipping", task.Code)
			return nil
		}

		path, err := fetcher.Get(ctx, task.Code, task.URL)
		if err != nil {
			return fmt.Errorf("prefetch flag %s: %w", task.Code, err)
		}

		log.Printf("[TASK] Cached flag for %s at %s", task.Code, path)
		return nil
	}
}

// NewPrefetchFlagQueue creates a backlite queue for single flag prefetches.
func NewPrefetchFlagQueue(fetcher FlagFetcher) backlite.Queue {
	return backlite.NewQueue(PrefetchFlagProcessor(fetcher))
}

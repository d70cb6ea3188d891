package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// PrefetchAllFlagsTask warms the flag cache for the whole catalog.
type PrefetchAllFlagsTask struct{}

// Config returns the queue configuration for bulk flag prefetches.
func (t PrefetchAllFlagsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueuePrefetchAllFlags,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PrefetchResult summarizes a bulk prefetch run.
type PrefetchResult struct {
	Total   int
	Cached  int
	Skipped int
	Failed  int
}

// PrefetchAll caches every flag in the catalog sequentially. Individual
// failures are counted, not returned.
func PrefetchAll(ctx context.Context, source CatalogSource, fetcher FlagFetcher) (PrefetchResult, error) {
	var result PrefetchResult

	countries, ready := source.Catalog()
	if !ready {
		return result, fmt.Errorf("catalog not loaded")
	}

	result.Total = len(countries)
	for _, country := range countries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if country.FlagImageURL == "" {
			result.Skipped++
			continue
		}
		if _, err := fetcher.Get(ctx, country.Code, country.FlagImageURL); err != nil {
			log.Printf("[TASK] Failed to cache flag for %s: %v", country.Code, err)
			result.Failed++
			continue
		}
		result.Cached++
	}

	return result, nil
}

// PrefetchAllFlagsProcessor creates a processor function for PrefetchAllFlagsTask.
func PrefetchAllFlagsProcessor(source CatalogSource, fetcher FlagFetcher) backlite.QueueProcessor[PrefetchAllFlagsTask] {
	return func(ctx context.Context, task PrefetchAllFlagsTask) error {
		if source == nil || fetcher == nil {
			return fmt.Errorf("flag prefetch not configured")
		}

		result, err := PrefetchAll(ctx, source, fetcher)
		if err != nil {
			return fmt.Errorf("prefetch all flags: %w", err)
		}

		log.Printf("[TASK] Flag prefetch complete: %d total, %d cached, %d skipped, %d failed",
			result.Total, result.Cached, result.Skipped, result.Failed)
		return nil
	}
}

// NewPrefetchAllFlagsQueue creates a backlite queue for bulk flag prefetches.
func NewPrefetchAllFlagsQueue(source CatalogSource, fetcher FlagFetcher) backlite.Queue {
	return backlite.NewQueue(PrefetchAllFlagsProcessor(source, fetcher))
}

package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/atlas/internal/entities"
)

// Client owns the flag prefetch queues. Tasks persist in a dedicated SQLite
// database next to the main one.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	workers int

	mu      sync.RWMutex
	started bool
}

// NewClient opens the tasks database for mainDBPath, installs the queue schema
// and registers the single and bulk flag prefetch queues.
func NewClient(mainDBPath string, cfg Config, catalog CatalogSource, fetcher FlagFetcher) (*Client, error) {
	if cfg.Workers < 1 {
		cfg.Workers = DefaultConfig().Workers
	}

	db, err := openTasksDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          taskLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set up flag prefetch queue: %w", err)
	}

	queue.Register(NewPrefetchFlagQueue(fetcher))
	queue.Register(NewPrefetchAllFlagsQueue(catalog, fetcher))

	return &Client{queue: queue, db: db, workers: cfg.Workers}, nil
}

func openTasksDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open tasks database %s: %w", path, err)
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Start launches the workers. Later calls are ignored.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Printf("[TASK] Flag prefetch workers started (%d)", c.workers)
	c.queue.Start(ctx)
}

// Stop waits for running prefetches until ctx expires and reports whether
// every worker finished.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.Started() {
		return true
	}

	finished := c.queue.Stop(ctx)
	if finished {
		log.Println("[TASK] Flag prefetch workers stopped")
	} else {
		log.Println("[TASK] Flag prefetch workers stopped before finishing")
	}
	return finished
}

// Close releases the tasks database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Started reports whether workers are processing tasks.
func (c *Client) Started() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started
}

// PrefetchFlag queues a cache fill for the flag of country and returns the
// task id.
func (c *Client) PrefetchFlag(country entities.Country) (string, error) {
	return c.enqueue(PrefetchFlagTask{Code: country.Code, URL: country.FlagImageURL})
}

// PrefetchAllFlags queues a cache fill for every flag in the loaded catalog.
func (c *Client) PrefetchAllFlags() (string, error) {
	return c.enqueue(PrefetchAllFlagsTask{})
}

func (c *Client) enqueue(task backlite.Task) (string, error) {
	ids, err := c.queue.Add(task).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", task.Config().Name, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue %s: no task id returned", task.Config().Name)
	}
	return ids[0], nil
}

func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

type taskLogger struct{}

func (taskLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (taskLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}

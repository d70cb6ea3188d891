package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule refreshes the catalog every six hours.
const DefaultSchedule = "0 */6 * * *"

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Refresher reloads the country catalog.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// ScheduleSource reports whether the refresh job is enabled and its cron
// expression. It is consulted on every Start and Reschedule.
type ScheduleSource interface {
	RefreshSchedule() (enabled bool, schedule string)
}

// StaticSchedule is a fixed ScheduleSource.
type StaticSchedule struct {
	Enabled  bool
	Schedule string
}

func (s StaticSchedule) RefreshSchedule() (bool, string) {
	return s.Enabled, s.Schedule
}

// Status reports the scheduler state for the catalog status endpoint.
type Status struct {
	Enabled   bool       `json:"enabled"`
	Schedule  string     `json:"schedule,omitempty"`
	Running   bool       `json:"running"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

// CatalogRefreshScheduler periodically reloads the catalog snapshot.
type CatalogRefreshScheduler struct {
	refresher Refresher
	source    ScheduleSource
	timeout   time.Duration

	// OnComplete runs after every refresh attempt with its start time and
	// result.
	OnComplete func(startedAt time.Time, err error)
	// OnRefresh runs after every successful refresh.
	OnRefresh func()

	cron       *cron.Cron
	entryID    cron.EntryID
	schedule   string
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	statusMu  sync.RWMutex
	lastRun   time.Time
	lastError error
}

// ValidateSchedule checks a 5-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// NextRun returns the next activation of schedule after from.
func NextRun(schedule string, from time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// NewCatalogRefreshScheduler creates a scheduler. A non-positive timeout
// bounds each refresh by one minute.
func NewCatalogRefreshScheduler(refresher Refresher, source ScheduleSource, timeout time.Duration) *CatalogRefreshScheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &CatalogRefreshScheduler{
		refresher: refresher,
		source:    source,
		timeout:   timeout,
		cron:      cron.New(cron.WithParser(cronParser)),
	}
}

func (s *CatalogRefreshScheduler) currentSchedule() (bool, string) {
	enabled, schedule := s.source.RefreshSchedule()
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return enabled, schedule
}

// Start schedules the refresh job if it is enabled. It stops when ctx is
// cancelled.
func (s *CatalogRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	enabled, schedule := s.currentSchedule()
	if !enabled {
		log.Printf("[CATALOG] Refresh scheduler disabled")
		return nil
	}

	if err := ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule catalog refresh: %w", err)
	}
	s.entryID = entryID
	s.schedule = schedule

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("[CATALOG] Refresh scheduler started with schedule '%s'. Next run: %v", schedule, s.nextRunLocked())

	// Only a cancelled parent stops the scheduler; Stop cancels cancelCtx itself
	go func() {
		<-cancelCtx.Done()
		if ctx.Err() != nil {
			s.Stop()
		}
	}()

	return nil
}

// Stop waits for a running refresh to finish and stops the scheduler.
func (s *CatalogRefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("[CATALOG] Refresh scheduler stopped")
}

// Reschedule restarts the scheduler with the current settings.
func (s *CatalogRefreshScheduler) Reschedule() error {
	s.Stop()
	return s.Start(context.Background())
}

// RunNow triggers an immediate refresh in the background.
func (s *CatalogRefreshScheduler) RunNow() {
	go s.runRefresh()
}

// IsRunning returns whether the scheduler is active.
func (s *CatalogRefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next refresh will occur.
func (s *CatalogRefreshScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return nil
	}
	return s.nextRunLocked()
}

func (s *CatalogRefreshScheduler) nextRunLocked() *time.Time {
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Status returns a snapshot of the scheduler state.
func (s *CatalogRefreshScheduler) Status() Status {
	enabled, schedule := s.currentSchedule()
	status := Status{
		Enabled:  enabled,
		Schedule: schedule,
		Running:  s.IsRunning(),
		NextRun:  s.NextRunTime(),
	}

	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	if !s.lastRun.IsZero() {
		t := s.lastRun
		status.LastRun = &t
	}
	if s.lastError != nil {
		status.LastError = s.lastError.Error()
	}
	return status
}

func (s *CatalogRefreshScheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	log.Printf("[CATALOG] Scheduled refresh starting")
	startTime := time.Now()
	err := s.refresher.Refresh(ctx)

	s.statusMu.Lock()
	s.lastRun = startTime
	s.lastError = err
	s.statusMu.Unlock()

	if s.OnComplete != nil {
		s.OnComplete(startTime, err)
	}

	if err != nil {
		log.Printf("[CATALOG] Scheduled refresh failed: %v", err)
		return
	}

	log.Printf("[CATALOG] Scheduled refresh finished in %v", time.Since(startTime).Round(time.Millisecond))
	if s.OnRefresh != nil {
		s.OnRefresh()
	}
}

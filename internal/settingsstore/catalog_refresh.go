package settingsstore

import (
	"strconv"
	"time"

	"github.com/mrlokans/atlas/internal/config"
	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/scheduler"
)

// CatalogRefreshConfig is the effective configuration of the refresh job.
type CatalogRefreshConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"`
}

// CatalogRefreshConfigInfo includes source information for each field
type CatalogRefreshConfigInfo struct {
	Enabled       bool   `json:"enabled"`
	EnabledSource string `json:"enabled_source"` // "database", "environment", "default"

	Schedule       string `json:"schedule"`
	ScheduleSource string `json:"schedule_source"`
}

// CatalogRefreshStatus is the outcome of the last refresh, kept across restarts.
type CatalogRefreshStatus struct {
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	Status    string     `json:"status,omitempty"` // "success", "failed", ""
	Message   string     `json:"message,omitempty"`
	Countries int        `json:"countries,omitempty"`
}

// GetCatalogRefreshEnabled returns whether scheduled refresh is enabled (database > env > default)
func (s *SettingsStore) GetCatalogRefreshEnabled() bool {
	value, _ := s.resolve(entities.SettingKeyCatalogRefreshEnabled, "CATALOG_REFRESH_ENABLED", "false")
	return parseBool(value)
}

func (s *SettingsStore) SetCatalogRefreshEnabled(enabled bool) error {
	return s.set(entities.SettingKeyCatalogRefreshEnabled, strconv.FormatBool(enabled))
}

// GetCatalogRefreshSchedule returns the cron schedule (database > env > default)
func (s *SettingsStore) GetCatalogRefreshSchedule() string {
	value, _ := s.resolve(entities.SettingKeyCatalogRefreshSchedule, "CATALOG_REFRESH_SCHEDULE", config.DefaultCatalogRefreshSchedule)
	return value
}

// SetCatalogRefreshSchedule validates and saves the schedule.
func (s *SettingsStore) SetCatalogRefreshSchedule(schedule string) error {
	if err := scheduler.ValidateSchedule(schedule); err != nil {
		return err
	}
	return s.set(entities.SettingKeyCatalogRefreshSchedule, schedule)
}

// RefreshSchedule makes the store a scheduler.ScheduleSource.
func (s *SettingsStore) RefreshSchedule() (bool, string) {
	return s.GetCatalogRefreshEnabled(), s.GetCatalogRefreshSchedule()
}

func (s *SettingsStore) GetCatalogRefreshConfig() CatalogRefreshConfig {
	return CatalogRefreshConfig{
		Enabled:  s.GetCatalogRefreshEnabled(),
		Schedule: s.GetCatalogRefreshSchedule(),
	}
}

// GetCatalogRefreshConfigInfo returns the configuration with source information
func (s *SettingsStore) GetCatalogRefreshConfigInfo() CatalogRefreshConfigInfo {
	enabled, enabledSource := s.resolve(entities.SettingKeyCatalogRefreshEnabled, "CATALOG_REFRESH_ENABLED", "false")
	schedule, scheduleSource := s.resolve(entities.SettingKeyCatalogRefreshSchedule, "CATALOG_REFRESH_SCHEDULE", config.DefaultCatalogRefreshSchedule)
	return CatalogRefreshConfigInfo{
		Enabled:        parseBool(enabled),
		EnabledSource:  enabledSource,
		Schedule:       schedule,
		ScheduleSource: scheduleSource,
	}
}

// ClearCatalogRefreshSettings clears all database overrides, reverting to env/default
func (s *SettingsStore) ClearCatalogRefreshSettings() error {
	return s.clear(
		entities.SettingKeyCatalogRefreshEnabled,
		entities.SettingKeyCatalogRefreshSchedule,
	)
}

// GetCatalogRefreshStatus returns the last refresh outcome.
func (s *SettingsStore) GetCatalogRefreshStatus() CatalogRefreshStatus {
	status := CatalogRefreshStatus{
		Status:  s.get(entities.SettingKeyCatalogRefreshLastStatus),
		Message: s.get(entities.SettingKeyCatalogRefreshLastMessage),
	}
	if ts, err := time.Parse(time.RFC3339, s.get(entities.SettingKeyCatalogRefreshLastAt)); err == nil {
		status.LastRunAt = &ts
	}
	if count, err := strconv.Atoi(s.get(entities.SettingKeyCatalogRefreshCountries)); err == nil {
		status.Countries = count
	}
	return status
}

// SetCatalogRefreshStatus records the outcome of a refresh started at runAt.
func (s *SettingsStore) SetCatalogRefreshStatus(runAt time.Time, refreshErr error, countries int) error {
	status, message := "success", ""
	if refreshErr != nil {
		status, message = "failed", refreshErr.Error()
	}

	if err := s.set(entities.SettingKeyCatalogRefreshLastAt, runAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := s.set(entities.SettingKeyCatalogRefreshLastStatus, status); err != nil {
		return err
	}
	if err := s.set(entities.SettingKeyCatalogRefreshLastMessage, message); err != nil {
		return err
	}
	return s.set(entities.SettingKeyCatalogRefreshCountries, strconv.Itoa(countries))
}

package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		RestCountries
		Flags
		Tasks
		Session
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	UI struct {
		TemplatesPath string // Empty uses the embedded templates
	}
	RestCountries struct {
		BaseURL string
		Timeout time.Duration
	}
	Flags struct {
		CacheDir string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool   // Set to false for local dev without HTTPS
		CSRFSecret    string // Auto-generated if empty
	}
)

// flagCacheDir returns FLAG_CACHE_DIR, or a "flags" directory next to the
// database when unset.
func flagCacheDir(v *viper.Viper) string {
	if dir := v.GetString("FLAG_CACHE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(filepath.Dir(v.GetString("DATABASE_PATH")), "flags")
}

// NewConfig reads the environment. CATALOG_REFRESH_ENABLED and
// CATALOG_REFRESH_SCHEDULE are resolved at runtime by the settings store,
// which lets database overrides take precedence.
func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "")

	v.SetDefault("restcountries_base_url", DefaultRestCountriesBaseURL)
	v.SetDefault("restcountries_timeout", "15s")
	v.SetDefault("flag_cache_dir", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Session defaults
	v.SetDefault("session_lifetime", "720h") // 30 days
	v.SetDefault("secure_cookies", false)
	v.SetDefault("csrf_secret", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
		},
		RestCountries: RestCountries{
			BaseURL: v.GetString("RESTCOUNTRIES_BASE_URL"),
			Timeout: v.GetDuration("RESTCOUNTRIES_TIMEOUT"),
		},
		Flags: Flags{
			CacheDir: flagCacheDir(v),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
		},
	}
}

package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/config"
	"github.com/mrlokans/atlas/internal/database"
	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/favorites"
	"github.com/mrlokans/atlas/internal/flags"
	http_controllers "github.com/mrlokans/atlas/internal/http"
	"github.com/mrlokans/atlas/internal/kvstore"
	"github.com/mrlokans/atlas/internal/restcountries"
	"github.com/mrlokans/atlas/internal/scheduler"
	"github.com/mrlokans/atlas/internal/session"
	"github.com/mrlokans/atlas/internal/settingsstore"
	"github.com/mrlokans/atlas/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends syscall.SIGTERM, kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// NewRestCountriesClient creates the REST Countries client from cfg.
func NewRestCountriesClient(cfg *config.Config) *restcountries.Client {
	return restcountries.NewClient(cfg.RestCountries.BaseURL, cfg.RestCountries.Timeout)
}

// NewDirectory builds the catalog directory backed by REST Countries.
func NewDirectory(cfg *config.Config) *directory.Directory {
	return directory.New(NewRestCountriesClient(cfg))
}

// loadCatalog performs the initial catalog load. Failures leave the directory
// in the loading state; a refresh can recover later.
func loadCatalog(ctx context.Context, dir *directory.Directory, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := dir.Load(ctx); err != nil {
		log.Printf("WARNING: initial catalog load failed: %v", err)
		return
	}
	log.Printf("Catalog loaded: %d countries", dir.Status().Count)
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Atlas v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	dir := NewDirectory(cfg)
	manager := favorites.NewManager()

	// Create flag cache for locally caching flag images
	flagCache, err := flags.NewCache(cfg.Flags.CacheDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize flag cache: %v", err)
	} else {
		log.Printf("Flag cache initialized at %s", cfg.Flags.CacheDir)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled && flagCache != nil {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, dir, flagCache)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Favorites keep a displayable flag when the provider is down
		manager.OnAdd = func(c entities.Country) {
			if c.FlagImageURL == "" {
				return
			}
			if _, err := taskClient.PrefetchFlag(c); err != nil {
				log.Printf("Failed to enqueue flag prefetch for %s: %v", c.Code, err)
			}
		}

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	} else if cfg.Tasks.Enabled {
		log.Printf("WARNING: task queue disabled because the flag cache is unavailable")
	}

	// Visitor sessions
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := session.NewManager(sqlDB, session.Config{
		Lifetime:      cfg.Session.Lifetime,
		SecureCookies: cfg.Session.SecureCookies,
	})
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	csrfSecret := cfg.Session.CSRFSecret
	if csrfSecret == "" {
		csrfSecret, err = session.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		log.Printf("Generated CSRF secret (set CSRF_SECRET to persist)")
	}

	// Catalog refresh scheduler; enabled and schedule resolve database > env > default
	settings := settingsstore.New(db)
	refreshScheduler := scheduler.NewCatalogRefreshScheduler(dir, settings, cfg.RestCountries.Timeout*2)
	refreshScheduler.OnComplete = func(startedAt time.Time, refreshErr error) {
		if err := settings.SetCatalogRefreshStatus(startedAt, refreshErr, dir.Status().Count); err != nil {
			log.Printf("Failed to record catalog refresh status: %v", err)
		}
	}
	if taskClient != nil {
		refreshScheduler.OnRefresh = func() {
			if _, err := taskClient.PrefetchAllFlags(); err != nil {
				log.Printf("Failed to enqueue flag prefetch after refresh: %v", err)
			}
		}
	}
	if err := refreshScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: catalog refresh scheduler not started: %v", err)
	}

	// The server starts in the loading state while the catalog is fetched
	go loadCatalog(context.Background(), dir, cfg.RestCountries.Timeout*2)

	routerCfg := http_controllers.RouterConfig{
		Directory:      dir,
		Favorites:      manager,
		Stores:         func(visitorID string) kvstore.Store { return db.Scope(visitorID) },
		Database:       db,
		SessionManager: sessionManager,
		CSRFSecret:     session.DecodeSecret(csrfSecret),
		SecureCookies:  cfg.Session.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		Version:        version,
		FlagCache:      flagCache,
		Scheduler:      refreshScheduler,
		Settings:       settings,
		TaskClient:     taskClient,
	}

	router, err := http_controllers.NewRouter(routerCfg)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	onShutdown := func(ctx context.Context) {
		refreshScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

package http

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/favorites"
	"github.com/mrlokans/atlas/internal/session"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Directory == nil {
		return nil, fmt.Errorf("router: directory is required")
	}
	if cfg.Stores == nil {
		return nil, fmt.Errorf("router: store provider is required")
	}
	if cfg.Favorites == nil {
		cfg.Favorites = favorites.NewManager()
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(session.SecurityHeadersMiddleware())
	router.Use(session.StrictTransportSecurityMiddleware())

	// CSRF must run before the session middleware so that the session
	// context is not replaced by CSRF's request copy
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSave())
		router.Use(cfg.SessionManager.VisitorMiddleware())
	} else {
		router.Use(session.StaticVisitor(DefaultVisitorID))
	}

	tmpl, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	health := NewHealthController(cfg.Database, cfg.Directory, cfg.Version)
	countries := NewCountriesController(cfg.Directory)
	favoritesController := NewFavoritesController(cfg.Directory, cfg.Favorites, cfg.Stores)
	catalogController := NewCatalogController(cfg.Directory, cfg.Scheduler)
	flagsController := NewFlagsController(cfg.FlagCache, cfg.Directory)
	uiController := NewUIController(cfg.Directory, cfg.Favorites, cfg.Stores)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Country API endpoints
	router.GET("/api/countries", countries.ListCountries)
	router.GET("/api/countries/:code", countries.GetCountry)
	router.GET("/api/countries/:code/borders", countries.GetBorders)
	router.GET("/api/regions", countries.ListRegions)
	router.GET("/api/languages", countries.ListLanguages)
	router.GET("/api/suggest", countries.Suggest)
	router.GET("/api/search", countries.Search)

	// Favorites API endpoints
	router.GET("/api/favorites", favoritesController.ListFavorites)
	router.POST("/api/favorites/:code", favoritesController.ToggleFavorite)
	router.DELETE("/api/favorites/:code", favoritesController.RemoveFavorite)

	// Catalog management
	router.GET("/api/catalog/status", catalogController.Status)
	router.POST("/api/catalog/refresh", catalogController.Refresh)

	// Catalog refresh settings (if SettingsStore is available)
	if cfg.Settings != nil {
		settingsController := NewSettingsController(cfg.Settings, cfg.Scheduler)
		router.GET("/api/settings/catalog-refresh", settingsController.GetCatalogRefresh)
		router.PUT("/api/settings/catalog-refresh", settingsController.UpdateCatalogRefresh)
		router.DELETE("/api/settings/catalog-refresh", settingsController.ResetCatalogRefresh)
	}

	// Flag images
	router.GET("/api/flags/:code", flagsController.GetFlag)

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.Directory)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	// UI routes
	router.GET("/", uiController.IndexPage)
	router.GET("/country/:code", uiController.CountryPage)
	router.GET("/favorites", uiController.FavoritesPage)
	router.POST("/favorites/:code/toggle", favoritesController.ToggleForm)

	return router, nil
}

package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/flags"
)

// FlagsController serves flag images from the local cache. Without a cache
// it redirects to the flag CDN.
type FlagsController struct {
	cache     *flags.Cache
	directory *directory.Directory
}

func NewFlagsController(cache *flags.Cache, dir *directory.Directory) *FlagsController {
	return &FlagsController{
		cache:     cache,
		directory: dir,
	}
}

// GetFlag serves a cached flag image.
// GET /api/flags/:code
func (fc *FlagsController) GetFlag(c *gin.Context) {
	code, ok := parseCountryCode(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	country, err := fc.directory.Lookup(c.Request.Context(), code)
	if err != nil || country.FlagImageURL == "" {
		c.Status(http.StatusNotFound)
		return
	}

	if fc.cache == nil {
		c.Redirect(http.StatusTemporaryRedirect, country.FlagImageURL)
		return
	}

	cachePath, err := fc.cache.Get(c.Request.Context(), country.Code, country.FlagImageURL)
	if err != nil || cachePath == "" {
		if err != nil {
			log.Printf("Warning: flag cache miss for %s: %v", code, err)
		}
		// Fall back to the CDN
		c.Redirect(http.StatusTemporaryRedirect, country.FlagImageURL)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("Content-Type", flags.ContentType(cachePath))
	c.File(cachePath)
}

package http

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/favorites"
	"github.com/mrlokans/atlas/internal/restcountries"
)

// FavoritesResponse is the JSON view of a visitor's favorites.
type FavoritesResponse struct {
	Favorites []entities.Country `json:"favorites"`
	Count     int                `json:"count"`
	Capacity  int                `json:"capacity"`
	Favorite  *bool              `json:"favorite,omitempty"`
}

type FavoritesController struct {
	directory *directory.Directory
	manager   *favorites.Manager
	stores    StoreProvider

	// Each mutation is a full read-modify-write of the blob; serialize them
	// so two tabs of one visitor cannot lose an update.
	mu sync.Mutex
}

func NewFavoritesController(dir *directory.Directory, manager *favorites.Manager, stores StoreProvider) *FavoritesController {
	return &FavoritesController{
		directory: dir,
		manager:   manager,
		stores:    stores,
	}
}

func favoritesResponse(list []entities.Country, favorite *bool) FavoritesResponse {
	return FavoritesResponse{
		Favorites: list,
		Count:     len(list),
		Capacity:  favorites.Capacity,
		Favorite:  favorite,
	}
}

// ListFavorites returns the visitor's favorites.
// GET /api/favorites
func (fc *FavoritesController) ListFavorites(c *gin.Context) {
	list := fc.manager.Load(visitorStore(c, fc.stores))
	c.JSON(http.StatusOK, favoritesResponse(list, nil))
}

// toggle resolves code to a catalog record and flips its membership.
func (fc *FavoritesController) toggle(c *gin.Context, code string) ([]entities.Country, bool, error) {
	country, err := fc.directory.Lookup(c.Request.Context(), code)
	if err != nil {
		return nil, false, err
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.manager.Toggle(visitorStore(c, fc.stores), *country)
}

// ToggleFavorite adds or removes a country.
// POST /api/favorites/:code
func (fc *FavoritesController) ToggleFavorite(c *gin.Context) {
	code, ok := parseCodeParam(c, "code")
	if !ok {
		return
	}

	list, added, err := fc.toggle(c, code)
	switch {
	case errors.Is(err, favorites.ErrCapacityExceeded):
		respondCodedError(c, http.StatusConflict, CodeCapacityExceeded, capacityMessage)
		return
	case err != nil:
		respondLookupError(c, err, "toggle favorite")
		return
	}

	c.JSON(http.StatusOK, favoritesResponse(list, &added))
}

// RemoveFavorite removes a country if it is a favorite.
// DELETE /api/favorites/:code
func (fc *FavoritesController) RemoveFavorite(c *gin.Context) {
	code, ok := parseCodeParam(c, "code")
	if !ok {
		return
	}

	fc.mu.Lock()
	list, err := fc.manager.Remove(visitorStore(c, fc.stores), code)
	fc.mu.Unlock()
	if err != nil {
		respondInternalError(c, err, "remove favorite")
		return
	}

	favorite := false
	c.JSON(http.StatusOK, favoritesResponse(list, &favorite))
}

// ToggleForm handles the favorite buttons of the HTML pages and redirects
// back to the page named by the "return" field.
// POST /favorites/:code/toggle
func (fc *FavoritesController) ToggleForm(c *gin.Context) {
	back := safeRedirectTarget(c.PostForm("return"), "/")

	code, ok := parseCountryCode(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	_, _, err := fc.toggle(c, code)
	switch {
	case errors.Is(err, favorites.ErrCapacityExceeded):
		c.Redirect(http.StatusSeeOther, withQuery(back, "notice", noticeCapacity))
		return
	case errors.Is(err, restcountries.ErrNotFound):
		renderErrorPage(c, http.StatusNotFound, "Country not found")
		return
	case err != nil:
		log.Printf("Error toggling favorite %s: %v", code, err)
		renderErrorPage(c, http.StatusBadGateway, "Favorites could not be updated right now")
		return
	}

	c.Redirect(http.StatusSeeOther, back)
}

func withQuery(target, key, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	query := u.Query()
	query.Set(key, value)
	u.RawQuery = query.Encode()
	if strings.HasPrefix(u.String(), "//") {
		return "/"
	}
	return u.String()
}

package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/catalog"
	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/entities"
)

// CountriesResponse is one page of the filtered catalog.
type CountriesResponse struct {
	Countries []entities.Country `json:"countries"`
	Total     int                `json:"total"`
	Visible   int                `json:"visible"`
	HasMore   bool               `json:"has_more"`
}

type CountriesController struct {
	directory *directory.Directory
}

func NewCountriesController(dir *directory.Directory) *CountriesController {
	return &CountriesController{directory: dir}
}

// ListCountries returns the filtered, paginated catalog.
// GET /api/countries?q=&region=&language=&visible=
func (cc *CountriesController) ListCountries(c *gin.Context) {
	state, err := catalog.ParseFilterState(c.Request.URL.Query())
	if errors.Is(err, catalog.ErrConflictingFilters) {
		respondCodedError(c, http.StatusBadRequest, CodeConflictingFilters, err.Error())
		return
	}

	page, err := cc.directory.Page(state)
	if err != nil {
		respondLookupError(c, err, "list countries")
		return
	}

	countries := page.Countries
	if countries == nil {
		countries = []entities.Country{}
	}
	c.JSON(http.StatusOK, CountriesResponse{
		Countries: countries,
		Total:     page.Total,
		Visible:   page.Visible,
		HasMore:   page.HasMore,
	})
}

// GetCountry returns the full record of one country.
// GET /api/countries/:code
func (cc *CountriesController) GetCountry(c *gin.Context) {
	code, ok := parseCodeParam(c, "code")
	if !ok {
		return
	}

	country, err := cc.directory.Country(c.Request.Context(), code)
	if err != nil {
		respondLookupError(c, err, "get country")
		return
	}

	c.JSON(http.StatusOK, country)
}

// GetBorders returns the neighbours of a country.
// GET /api/countries/:code/borders
func (cc *CountriesController) GetBorders(c *gin.Context) {
	code, ok := parseCodeParam(c, "code")
	if !ok {
		return
	}

	country, err := cc.directory.Lookup(c.Request.Context(), code)
	if err != nil {
		respondLookupError(c, err, "get borders")
		return
	}

	borders, err := cc.directory.Borders(c.Request.Context(), country)
	if err != nil {
		respondLookupError(c, err, "get borders")
		return
	}
	if borders == nil {
		borders = []entities.Country{}
	}

	c.JSON(http.StatusOK, gin.H{"code": code, "borders": borders})
}

// ListRegions returns the distinct regions of the catalog.
// GET /api/regions
func (cc *CountriesController) ListRegions(c *gin.Context) {
	if !cc.directory.Ready() {
		respondCatalogLoading(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": cc.directory.Regions()})
}

// ListLanguages returns the distinct language names of the catalog.
// GET /api/languages
func (cc *CountriesController) ListLanguages(c *gin.Context) {
	if !cc.directory.Ready() {
		respondCatalogLoading(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"languages": cc.directory.Languages()})
}

// Suggest returns up to five name matches for search-as-you-type.
// GET /api/suggest?q=
func (cc *CountriesController) Suggest(c *gin.Context) {
	text := strings.TrimSpace(c.Query("q"))
	if text == "" {
		c.JSON(http.StatusOK, gin.H{"suggestions": []entities.Country{}})
		return
	}

	suggestions, err := cc.directory.Suggest(c.Request.Context(), text)
	if err != nil {
		respondLookupError(c, err, "suggest")
		return
	}
	if suggestions == nil {
		suggestions = []entities.Country{}
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Search returns every remote name match.
// GET /api/search?q=
func (cc *CountriesController) Search(c *gin.Context) {
	text := strings.TrimSpace(c.Query("q"))
	if text == "" {
		respondBadRequest(c, "q is required")
		return
	}

	results, err := cc.directory.SearchAll(c.Request.Context(), text)
	if err != nil {
		respondLookupError(c, err, "search")
		return
	}
	if results == nil {
		results = []entities.Country{}
	}

	c.JSON(http.StatusOK, gin.H{"countries": results, "total": len(results)})
}

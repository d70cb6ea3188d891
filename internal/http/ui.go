package http

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/atlas/internal/catalog"
	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/favorites"
	"github.com/mrlokans/atlas/internal/restcountries"
	"github.com/mrlokans/atlas/internal/session"
)

const (
	noticeCapacity      = "capacity"
	capacityMessage     = "You can only have up to 5 favorite countries!"
	sessionExpiredAlert = "Session expired. Please try again."
	loadingRefreshSecs  = 5
)

// pageData carries the fields every HTML page renders.
type pageData struct {
	Title     string
	Notice    string
	Refresh   int
	CSRFField template.HTML
	Return    string
	Favorites []entities.Country
}

// countryCard is one country with its favorite toggle.
type countryCard struct {
	Country   entities.Country
	Favorite  bool
	Return    string
	CSRFField template.HTML
}

type indexPage struct {
	pageData
	State    catalog.FilterState
	Page     catalog.Page
	Cards    []countryCard
	MoreURL  string
	ResetURL string

	// SearchHidden holds the filters the search form resubmits with q.
	SearchHidden    url.Values
	RegionOptions   []filterOption
	LanguageOptions []filterOption
}

// filterOption is one entry of the region or language picker. URL is the
// page the option navigates to.
type filterOption struct {
	Label    string
	URL      string
	Selected bool
}

type countryPage struct {
	pageData
	Country entities.Country
	Toggle  countryCard
	Borders []entities.Country
}

type favoritesPage struct {
	pageData
	Cards []countryCard
}

type errorPage struct {
	pageData
	Message string
}

type UIController struct {
	directory *directory.Directory
	favorites *favorites.Manager
	stores    StoreProvider
}

func NewUIController(dir *directory.Directory, manager *favorites.Manager, stores StoreProvider) *UIController {
	return &UIController{
		directory: dir,
		favorites: manager,
		stores:    stores,
	}
}

func (controller *UIController) basePage(c *gin.Context, title string) pageData {
	return pageData{
		Title:     title,
		Notice:    noticeFromQuery(c),
		CSRFField: template.HTML(session.CSRFField(c)),
		Return:    returnPath(c),
		Favorites: controller.favorites.Load(visitorStore(c, controller.stores)),
	}
}

func (controller *UIController) cards(base pageData, countries []entities.Country) []countryCard {
	cards := make([]countryCard, 0, len(countries))
	for _, country := range countries {
		cards = append(cards, countryCard{
			Country:   country,
			Favorite:  favorites.Contains(base.Favorites, country.Code),
			Return:    base.Return,
			CSRFField: base.CSRFField,
		})
	}
	return cards
}

// filterURL renders state as a link to the directory page.
func filterURL(state catalog.FilterState) string {
	query := state.Query()
	if len(query) == 0 {
		return "/"
	}
	return "/?" + query.Encode()
}

func regionOptions(state catalog.FilterState, regions []string) []filterOption {
	options := []filterOption{{Label: "All Regions", URL: filterURL(state.WithRegion("")), Selected: state.Region == ""}}
	for _, region := range regions {
		options = append(options, filterOption{
			Label:    region,
			URL:      filterURL(state.WithRegion(region)),
			Selected: region == state.Region,
		})
	}
	return options
}

func languageOptions(state catalog.FilterState, languages []string) []filterOption {
	options := []filterOption{{Label: "All Languages", URL: filterURL(state.WithLanguage("")), Selected: state.Language == ""}}
	for _, language := range languages {
		options = append(options, filterOption{
			Label:    language,
			URL:      filterURL(state.WithLanguage(language)),
			Selected: language == state.Language,
		})
	}
	return options
}

func (controller *UIController) renderLoading(c *gin.Context) {
	c.Header("Retry-After", "5")
	c.HTML(http.StatusServiceUnavailable, "loading", pageData{Title: "Loading", Refresh: loadingRefreshSecs})
}

func renderErrorPage(c *gin.Context, status int, message string) {
	c.HTML(status, "error", errorPage{pageData: pageData{Title: message}, Message: message})
}

// IndexPage renders the filtered country grid.
// GET /?q=&region=&language=&visible=
func (controller *UIController) IndexPage(c *gin.Context) {
	state, err := catalog.ParseFilterState(c.Request.URL.Query())
	if err != nil {
		renderErrorPage(c, http.StatusBadRequest, "Choose either a region or a language, not both")
		return
	}

	page, err := controller.directory.Page(state)
	if errors.Is(err, directory.ErrNotReady) {
		controller.renderLoading(c)
		return
	}
	if err != nil {
		renderErrorPage(c, http.StatusInternalServerError, "Could not load countries")
		return
	}

	base := controller.basePage(c, "")
	c.HTML(http.StatusOK, "index", indexPage{
		pageData: base,
		State:    state,
		Page:     page,
		Cards:    controller.cards(base, page.Countries),
		MoreURL:  filterURL(state.LoadMore()),
		ResetURL: filterURL(state.Home()),

		SearchHidden:    state.WithSearch("").Query(),
		RegionOptions:   regionOptions(state, controller.directory.Regions()),
		LanguageOptions: languageOptions(state, controller.directory.Languages()),
	})
}

// CountryPage renders the detail view of one country.
// GET /country/:code
func (controller *UIController) CountryPage(c *gin.Context) {
	code, ok := parseCountryCode(c)
	if !ok {
		renderErrorPage(c, http.StatusNotFound, "Country not found")
		return
	}

	country, err := controller.directory.Country(c.Request.Context(), code)
	switch {
	case errors.Is(err, restcountries.ErrNotFound):
		renderErrorPage(c, http.StatusNotFound, "Country not found")
		return
	case err != nil:
		log.Printf("Error loading country %s: %v", code, err)
		renderErrorPage(c, http.StatusBadGateway, "Country data is unavailable right now")
		return
	}

	borders, err := controller.directory.Borders(c.Request.Context(), country)
	if err != nil {
		log.Printf("Warning: could not load borders of %s: %v", code, err)
		borders = nil
	}

	base := controller.basePage(c, country.CommonName)
	c.HTML(http.StatusOK, "country", countryPage{
		pageData: base,
		Country:  *country,
		Toggle:   controller.cards(base, []entities.Country{*country})[0],
		Borders:  borders,
	})
}

// FavoritesPage renders the visitor's favorites.
// GET /favorites
func (controller *UIController) FavoritesPage(c *gin.Context) {
	base := controller.basePage(c, "Favorites")
	c.HTML(http.StatusOK, "favorites", favoritesPage{
		pageData: base,
		Cards:    controller.cards(base, base.Favorites),
	})
}

func parseCountryCode(c *gin.Context) (string, bool) {
	code := normalizeCode(c.Param("code"))
	return code, isCountryCode(code)
}

func noticeFromQuery(c *gin.Context) string {
	if c.Query("notice") == noticeCapacity {
		return capacityMessage
	}
	if c.Query("error") != "" {
		return sessionExpiredAlert
	}
	return ""
}

// returnPath is the current request path without one-shot notice params.
func returnPath(c *gin.Context) string {
	query := c.Request.URL.Query()
	query.Del("notice")
	query.Del("error")
	u := url.URL{Path: c.Request.URL.Path, RawQuery: query.Encode()}
	return u.RequestURI()
}

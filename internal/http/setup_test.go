package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/atlas/internal/directory"
	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/favorites"
	"github.com/mrlokans/atlas/internal/kvstore"
	"github.com/mrlokans/atlas/internal/restcountries"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeSource serves a fixed catalog and can simulate provider outages.
type fakeSource struct {
	mu      sync.Mutex
	all     []entities.Country
	offline bool
}

var errOffline = &restcountries.NetworkError{Op: "fetch", URL: "http://restcountries.test", Err: fmt.Errorf("connection refused")}

func (f *fakeSource) setOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

func (f *fakeSource) isOffline() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offline
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]entities.Country, error) {
	if f.isOffline() {
		return nil, errOffline
	}
	return f.all, nil
}

func (f *fakeSource) FetchByCode(ctx context.Context, code string) (*entities.Country, error) {
	if f.isOffline() {
		return nil, errOffline
	}
	for _, c := range f.all {
		if c.Code == code {
			c.OfficialName = "Official " + c.CommonName
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", restcountries.ErrNotFound, code)
}

func (f *fakeSource) FetchByCodes(ctx context.Context, codes []string) ([]entities.Country, error) {
	if f.isOffline() {
		return nil, errOffline
	}
	var out []entities.Country
	for _, code := range codes {
		for _, c := range f.all {
			if c.Code == code {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeSource) SearchByName(ctx context.Context, text string) ([]entities.Country, error) {
	if f.isOffline() {
		return nil, errOffline
	}
	var out []entities.Country
	for _, c := range f.all {
		if strings.Contains(strings.ToLower(c.CommonName), strings.ToLower(text)) {
			out = append(out, c)
		}
	}
	return out, nil
}

// testCatalog has 14 countries so that the first page is not the last.
func testCatalog() []entities.Country {
	eu := map[string]string{"fra": "French"}
	countries := []entities.Country{
		{Code: "FRA", CommonName: "France", Region: "Europe", Languages: eu, Capital: []string{"Paris"}, Borders: []string{"BEL", "DEU"}, FlagImageURL: "https://flagcdn.test/fr.svg", Population: 67391582},
		{Code: "BEL", CommonName: "Belgium", Region: "Europe", Languages: map[string]string{"fra": "French", "nld": "Dutch"}, FlagImageURL: "https://flagcdn.test/be.svg"},
		{Code: "DEU", CommonName: "Germany", Region: "Europe", Languages: map[string]string{"deu": "German"}, FlagImageURL: "https://flagcdn.test/de.svg"},
		{Code: "JPN", CommonName: "Japan", Region: "Asia", Languages: map[string]string{"jpn": "Japanese"}, FlagImageURL: "https://flagcdn.test/jp.svg"},
		{Code: "ISL", CommonName: "Iceland", Region: "Europe", Languages: map[string]string{"isl": "Icelandic"}},
	}
	for i := 0; len(countries) < 14; i++ {
		code := fmt.Sprintf("Q%c%c", 'A'+i/26, 'A'+i%26)
		countries = append(countries, entities.Country{
			Code:       code,
			CommonName: "Testland " + code,
			Region:     "Oceania",
			Languages:  map[string]string{"eng": "English"},
		})
	}
	return countries
}

type testEnv struct {
	source    *fakeSource
	directory *directory.Directory
	manager   *favorites.Manager
	stores    map[string]*kvstore.MemStore
	storesMu  sync.Mutex
}

func newTestEnv(t *testing.T, loaded bool) *testEnv {
	t.Helper()

	env := &testEnv{
		source:  &fakeSource{all: testCatalog()},
		manager: favorites.NewManager(),
		stores:  make(map[string]*kvstore.MemStore),
	}
	env.directory = directory.New(env.source)
	if loaded {
		require.NoError(t, env.directory.Load(context.Background()))
	}
	return env
}

func (e *testEnv) storeFor(visitorID string) kvstore.Store {
	e.storesMu.Lock()
	defer e.storesMu.Unlock()
	store, ok := e.stores[visitorID]
	if !ok {
		store = kvstore.NewMemStore(nil)
		e.stores[visitorID] = store
	}
	return store
}

func (e *testEnv) router(t *testing.T) *gin.Engine {
	t.Helper()
	router, err := NewRouter(RouterConfig{
		Directory: e.directory,
		Favorites: e.manager,
		Stores:    e.storeFor,
		Version:   "test",
	})
	require.NoError(t, err)
	return router
}

func (e *testEnv) favoritesOf(visitorID string) []entities.Country {
	return e.manager.Load(e.storeFor(visitorID))
}

func doRequest(router http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

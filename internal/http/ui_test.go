package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIController_IndexPage(t *testing.T) {
	t.Run("renders the first page with show more", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/", "")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "AtlasHub")
		assert.Contains(t, body, "France")
		assert.Contains(t, body, "14 countries")
		assert.Contains(t, body, `href="/?visible=24"`)
		assert.Contains(t, body, "Show More")
		assert.Equal(t, 12, strings.Count(body, `<article class="card">`))
	})

	t.Run("hides show more on the last page", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/?region=Europe", "")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.NotContains(t, body, "Show More")
		assert.Equal(t, 4, strings.Count(body, `<article class="card">`))
		assert.Contains(t, body, `<option value="/?region=Europe" selected>`)
	})

	t.Run("keeps filters in the load more link", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/?language=English", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 9, strings.Count(w.Body.String(), `<article class="card">`))
		assert.NotContains(t, w.Body.String(), "Show More")
	})

	t.Run("picking a language clears region and visible", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/?region=Europe&visible=24", "")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `<option value="/?language=French">French</option>`)
		assert.NotContains(t, body, `language=French&amp;region`)
		assert.Contains(t, body, `<option value="/?region=Asia">Asia</option>`)
	})

	t.Run("picking a region keeps the search text", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/?q=an&language=French&visible=24", "")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `<option value="/?q=an&amp;region=Europe">Europe</option>`)
		assert.Contains(t, body, `<option value="/?q=an" selected>All Regions</option>`)
		assert.Contains(t, body, `<input type="hidden" name="language" value="French">`)
		assert.NotContains(t, body, `name="visible"`)
		assert.Contains(t, body, `href="/" id="reset-filters"`)
	})

	t.Run("offers view all results in suggestions", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "View all results")
		assert.NotContains(t, w.Body.String(), "reset-filters")
	})

	t.Run("shows loading while catalog is unavailable", func(t *testing.T) {
		env := newTestEnv(t, false)
		w := doRequest(env.router(t), "GET", "/", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "Loading...")
		assert.Contains(t, w.Body.String(), `http-equiv="refresh"`)
	})

	t.Run("rejects conflicting filters", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/?region=Europe&language=French", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("shows capacity notice", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/?notice=capacity", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "You can only have up to 5 favorite countries!")
		assert.Contains(t, w.Body.String(), `name="return" value="/"`)
	})

	t.Run("lists favorites in the sidebar", func(t *testing.T) {
		env := newTestEnv(t, true)
		router := env.router(t)
		doRequest(router, "POST", "/api/favorites/JPN", "")

		w := doRequest(router, "GET", "/", "")
		assert.Contains(t, w.Body.String(), "Favorites (1/5)")
		assert.Contains(t, w.Body.String(), `heart on`)
	})
}

func TestUIController_CountryPage(t *testing.T) {
	t.Run("renders details and borders", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/country/FRA", "")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Official France")
		assert.Contains(t, body, "Paris")
		assert.Contains(t, body, "67,391,582")
		assert.Contains(t, body, `href="/country/BEL"`)
		assert.Contains(t, body, `href="/country/DEU"`)
	})

	t.Run("shows missing fields as N/A", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/country/ISL", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "N/A")
		assert.Contains(t, w.Body.String(), "No border countries")
	})

	t.Run("returns 404 for unknown country", func(t *testing.T) {
		env := newTestEnv(t, true)
		w := doRequest(env.router(t), "GET", "/country/ZZZ", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Country not found")
	})

	t.Run("returns 502 when provider is down and country is not cached", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.source.setOffline(true)
		w := doRequest(env.router(t), "GET", "/country/FRA", "")

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestUIController_FavoritesPage(t *testing.T) {
	env := newTestEnv(t, true)
	router := env.router(t)

	w := doRequest(router, "GET", "/favorites", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "You have not added any favorites yet.")

	doRequest(router, "POST", "/api/favorites/DEU", "")
	w = doRequest(router, "GET", "/favorites", "")
	assert.Contains(t, w.Body.String(), "Germany")
	assert.Contains(t, w.Body.String(), "1 of 5 slots used")
}

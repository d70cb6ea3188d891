package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/atlas/internal/entities"
)

func TestPagination(t *testing.T) {
	assert.Equal(t, 12, Reset())
	assert.Equal(t, 24, Advance(12))
	assert.Equal(t, 36, Advance(Advance(Reset())))

	assert.True(t, HasMore(12, 13))
	assert.False(t, HasMore(12, 12))
	assert.False(t, HasMore(24, 3))
}

func TestNormalizeVisible(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 12}, {-3, 12}, {1, 12}, {12, 12}, {13, 24}, {24, 24}, {25, 36},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeVisible(tt.in), "in=%d", tt.in)
	}
}

func TestFilterState_Transitions(t *testing.T) {
	t.Run("region then language clears region", func(t *testing.T) {
		s := NewFilterState().WithRegion("Europe").WithLanguage("French")
		assert.Equal(t, "", s.Region)
		assert.Equal(t, "French", s.Language)
	})

	t.Run("language then region clears language", func(t *testing.T) {
		s := NewFilterState().WithLanguage("French").WithRegion("Europe")
		assert.Equal(t, "Europe", s.Region)
		assert.Equal(t, "", s.Language)
	})

	t.Run("filter changes reset visible", func(t *testing.T) {
		s := NewFilterState().LoadMore().LoadMore()
		require.Equal(t, 36, s.Visible)

		assert.Equal(t, PageSize, s.WithSearch("a").Visible)
		assert.Equal(t, PageSize, s.WithRegion("Asia").Visible)
		assert.Equal(t, PageSize, s.WithLanguage("French").Visible)
	})

	t.Run("load more keeps filters", func(t *testing.T) {
		s := NewFilterState().WithSearch("an").WithRegion("Europe").LoadMore()
		assert.Equal(t, "an", s.Search)
		assert.Equal(t, "Europe", s.Region)
		assert.Equal(t, 24, s.Visible)
	})

	t.Run("home clears everything", func(t *testing.T) {
		s := NewFilterState().WithSearch("x").WithLanguage("French").LoadMore().Home()
		assert.Equal(t, NewFilterState(), s)
		assert.False(t, s.IsFiltered())
	})
}

func TestParseFilterState(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := ParseFilterState(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, NewFilterState(), s)
	})

	t.Run("rounds visible up", func(t *testing.T) {
		s, err := ParseFilterState(url.Values{"q": {"ger"}, "visible": {"13"}})
		require.NoError(t, err)
		assert.Equal(t, "ger", s.Search)
		assert.Equal(t, 24, s.Visible)
	})

	t.Run("keeps search text verbatim", func(t *testing.T) {
		s, err := ParseFilterState(url.Values{"q": {"Ger "}})
		require.NoError(t, err)
		assert.Equal(t, "Ger ", s.Search)
		assert.Empty(t, Apply(scenarioCatalog(), s.Search, s.Region, s.Language, s.Visible))

		s, err = ParseFilterState(url.Values{"q": {" "}})
		require.NoError(t, err)
		catalog := append(scenarioCatalog(), entities.Country{Code: "ZAF", CommonName: "South Africa", Region: "Africa"})
		result := Apply(catalog, s.Search, s.Region, s.Language, s.Visible)
		require.Len(t, result, 1)
		assert.Equal(t, "ZAF", result[0].Code)
	})

	t.Run("invalid visible falls back to one page", func(t *testing.T) {
		s, err := ParseFilterState(url.Values{"visible": {"lots"}})
		require.NoError(t, err)
		assert.Equal(t, PageSize, s.Visible)
	})

	t.Run("region and language together are rejected", func(t *testing.T) {
		_, err := ParseFilterState(url.Values{"region": {"Europe"}, "language": {"French"}})
		assert.ErrorIs(t, err, ErrConflictingFilters)
	})

	t.Run("query round trip", func(t *testing.T) {
		s := NewFilterState().WithSearch("an").WithLanguage("French").LoadMore()
		parsed, err := ParseFilterState(s.Query())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	})
}

func TestPaginate(t *testing.T) {
	catalog := largeCatalog()

	page := Paginate(catalog, FilterState{Region: "Europe", Visible: 2})
	assert.Equal(t, []string{"FRA", "DEU"}, codes(page.Countries))
	assert.Equal(t, 4, page.Total)
	assert.True(t, page.HasMore)

	page = Paginate(catalog, NewFilterState().WithRegion("Europe"))
	assert.Len(t, page.Countries, 4)
	assert.False(t, page.HasMore, "show more is withdrawn once everything filtered is visible")
}

package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/atlas/internal/entities"
)

type fakeFetcher struct {
	fail    map[string]bool
	fetched []string
}

func (f *fakeFetcher) Get(ctx context.Context, code, flagURL string) (string, error) {
	if f.fail[code] {
		return "", errors.New("cdn unavailable")
	}
	f.fetched = append(f.fetched, code)
	return "/cache/" + code, nil
}

type fakeCatalog struct {
	countries []entities.Country
	ready     bool
}

func (f fakeCatalog) Catalog() ([]entities.Country, bool) {
	return f.countries, f.ready
}

func TestPrefetchFlagProcessor(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[string]bool{"DEU": true}}
	process := PrefetchFlagProcessor(fetcher)

	require.NoError(t, process(context.Background(), PrefetchFlagTask{Code: "FRA", URL: "https://x/fr.svg"}))
	assert.Equal(t, []string{"FRA"}, fetcher.fetched)

	require.NoError(t, process(context.Background(), PrefetchFlagTask{Code: "ATA"}), "missing URL is skipped")
	assert.Len(t, fetcher.fetched, 1)

	assert.Error(t, process(context.Background(), PrefetchFlagTask{Code: "DEU", URL: "https://x/de.svg"}))
}

func TestPrefetchFlagProcessor_NotConfigured(t *testing.T) {
	err := PrefetchFlagProcessor(nil)(context.Background(), PrefetchFlagTask{Code: "FRA", URL: "u"})
	assert.Error(t, err)
}

func TestPrefetchAll(t *testing.T) {
	source := fakeCatalog{ready: true, countries: []entities.Country{
		{Code: "FRA", FlagImageURL: "https://x/fr.svg"},
		{Code: "DEU", FlagImageURL: "https://x/de.svg"},
		{Code: "ATA"},
		{Code: "JPN", FlagImageURL: "https://x/jp.svg"},
	}}
	fetcher := &fakeFetcher{fail: map[string]bool{"DEU": true}}

	result, err := PrefetchAll(context.Background(), source, fetcher)
	require.NoError(t, err)

	assert.Equal(t, PrefetchResult{Total: 4, Cached: 2, Skipped: 1, Failed: 1}, result)
	assert.Equal(t, []string{"FRA", "JPN"}, fetcher.fetched)
}

func TestPrefetchAll_CatalogNotLoaded(t *testing.T) {
	_, err := PrefetchAll(context.Background(), fakeCatalog{}, &fakeFetcher{})
	assert.Error(t, err)

	err = PrefetchAllFlagsProcessor(fakeCatalog{}, &fakeFetcher{})(context.Background(), PrefetchAllFlagsTask{})
	assert.Error(t, err)
}

func TestPrefetchAll_StopsOnCancel(t *testing.T) {
	source := fakeCatalog{ready: true, countries: []entities.Country{{Code: "FRA", FlagImageURL: "u"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PrefetchAll(ctx, source, &fakeFetcher{})
	assert.ErrorIs(t, err, context.Canceled)
}

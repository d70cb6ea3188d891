// Package directory owns the in-memory country catalog and answers every
// catalog-derived query for the HTTP layer and the CLI.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/atlas/internal/catalog"
	"github.com/mrlokans/atlas/internal/entities"
	"github.com/mrlokans/atlas/internal/restcountries"
)

// SuggestionLimit caps the search-as-you-type dropdown.
const SuggestionLimit = 5

// ErrNotReady is returned while the catalog has never been loaded.
var ErrNotReady = errors.New("catalog is still loading")

// Source is the remote country data provider.
type Source interface {
	FetchAll(ctx context.Context) ([]entities.Country, error)
	FetchByCode(ctx context.Context, code string) (*entities.Country, error)
	FetchByCodes(ctx context.Context, codes []string) ([]entities.Country, error)
	SearchByName(ctx context.Context, text string) ([]entities.Country, error)
}

var _ Source = (*restcountries.Client)(nil)

// Status describes the catalog snapshot.
type Status struct {
	Ready       bool      `json:"ready"`
	Count       int       `json:"count"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastAttempt time.Time `json:"last_attempt,omitempty"`
}

// Directory holds one catalog snapshot. A failed load never replaces a good
// snapshot, and a directory that never loaded stays not-ready rather than
// showing partial data.
type Directory struct {
	source Source

	mu          sync.RWMutex
	countries   []entities.Country
	byCode      map[string]int
	regions     []string
	languages   []string
	ready       bool
	loadedAt    time.Time
	lastErr     error
	lastAttempt time.Time
}

func New(source Source) *Directory {
	return &Directory{source: source}
}

// Load fetches the catalog and swaps it in. Concurrent loads are
// last-write-wins.
func (d *Directory) Load(ctx context.Context) error {
	countries, err := d.source.FetchAll(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastAttempt = time.Now()
	if err != nil {
		d.lastErr = err
		if d.ready {
			log.Printf("[CATALOG] Refresh failed, keeping %d countries: %v", len(d.countries), err)
		} else {
			log.Printf("[CATALOG] Load failed, catalog stays unavailable: %v", err)
		}
		return fmt.Errorf("load catalog: %w", err)
	}

	byCode := make(map[string]int, len(countries))
	for i, c := range countries {
		byCode[c.Code] = i
	}

	d.countries = countries
	d.byCode = byCode
	d.regions = catalog.DistinctRegions(countries)
	d.languages = catalog.DistinctLanguages(countries)
	d.ready = true
	d.loadedAt = d.lastAttempt
	d.lastErr = nil

	log.Printf("[CATALOG] Loaded %d countries (%d regions, %d languages)", len(countries), len(d.regions), len(d.languages))
	return nil
}

// Refresh reloads the catalog; it is Load under the name used by schedulers.
func (d *Directory) Refresh(ctx context.Context) error {
	return d.Load(ctx)
}

func (d *Directory) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ready
}

func (d *Directory) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := Status{
		Ready:       d.ready,
		Count:       len(d.countries),
		LoadedAt:    d.loadedAt,
		LastAttempt: d.lastAttempt,
	}
	if d.lastErr != nil {
		s.LastError = d.lastErr.Error()
	}
	return s
}

// Catalog returns the snapshot. The slice is shared and must not be modified.
func (d *Directory) Catalog() ([]entities.Country, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.countries, d.ready
}

// Page applies the filter state to the snapshot.
func (d *Directory) Page(state catalog.FilterState) (catalog.Page, error) {
	countries, ready := d.Catalog()
	if !ready {
		return catalog.Page{}, ErrNotReady
	}
	return catalog.Paginate(countries, state), nil
}

func (d *Directory) Regions() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.regions
}

func (d *Directory) Languages() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.languages
}

func (d *Directory) cached(code string) (entities.Country, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.byCode[code]
	if !ok {
		return entities.Country{}, false
	}
	return d.countries[i], true
}

// Lookup returns a country from the snapshot, falling back to the remote
// source when it is not cached.
func (d *Directory) Lookup(ctx context.Context, code string) (*entities.Country, error) {
	if c, ok := d.cached(code); ok {
		return &c, nil
	}
	return d.source.FetchByCode(ctx, code)
}

// Country fetches the full record for the detail page. The snapshot holds a
// reduced field set, so the remote source is asked first and the snapshot is
// only used when the provider is unreachable.
func (d *Directory) Country(ctx context.Context, code string) (*entities.Country, error) {
	country, err := d.source.FetchByCode(ctx, code)
	if err == nil {
		return country, nil
	}
	if restcountries.IsNetworkError(err) {
		if c, ok := d.cached(code); ok {
			log.Printf("Warning: serving cached record for %s: %v", code, err)
			return &c, nil
		}
	}
	return nil, err
}

// Borders returns the neighbouring countries of c.
func (d *Directory) Borders(ctx context.Context, c *entities.Country) ([]entities.Country, error) {
	if c == nil || len(c.Borders) == 0 {
		return []entities.Country{}, nil
	}
	return d.source.FetchByCodes(ctx, c.Borders)
}

// Suggest returns at most SuggestionLimit name matches for the search box.
func (d *Directory) Suggest(ctx context.Context, text string) ([]entities.Country, error) {
	results, err := d.SearchAll(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(results) > SuggestionLimit {
		results = results[:SuggestionLimit]
	}
	return results, nil
}

// SearchAll returns every remote name match.
func (d *Directory) SearchAll(ctx context.Context, text string) ([]entities.Country, error) {
	return d.source.SearchByName(ctx, text)
}

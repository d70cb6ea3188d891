// Package restcountries fetches country records from the REST Countries v3.1 API.
package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrlokans/atlas/internal/entities"
)

// DefaultBaseURL is the public REST Countries endpoint.
const DefaultBaseURL = "https://restcountries.com"

const userAgent = "CountryAtlas/1.0 (https://github.com/mrlokans/atlas)"

// catalogFields limits /all to the fields the directory uses. The API caps
// the list at ten fields.
const catalogFields = "name,cca3,region,subregion,languages,capital,borders,flags,population,area"

// ErrNotFound is returned when a code lookup matches no country.
var ErrNotFound = errors.New("country not found")

// NetworkError reports a failed request or a non-success response.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// Client talks to the REST Countries API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL and a
// zero timeout selects 15 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchAll returns the full catalog in API order.
func (c *Client) FetchAll(ctx context.Context) ([]entities.Country, error) {
	u := fmt.Sprintf("%s/v3.1/all?fields=%s", c.baseURL, catalogFields)
	return c.fetch(ctx, "fetch catalog", u, false)
}

// FetchByCode returns the single country with the given cca3/cca2 code.
func (c *Client) FetchByCode(ctx context.Context, code string) (*entities.Country, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrNotFound
	}

	u := fmt.Sprintf("%s/v3.1/alpha/%s", c.baseURL, url.PathEscape(code))
	countries, err := c.fetch(ctx, "fetch country", u, true)
	if err != nil {
		return nil, err
	}
	if len(countries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return &countries[0], nil
}

// FetchByCodes returns the countries named by codes, used for border lookups.
// An empty list returns an empty result without a request.
func (c *Client) FetchByCodes(ctx context.Context, codes []string) ([]entities.Country, error) {
	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			cleaned = append(cleaned, code)
		}
	}
	if len(cleaned) == 0 {
		return []entities.Country{}, nil
	}

	u := fmt.Sprintf("%s/v3.1/alpha?codes=%s", c.baseURL, url.QueryEscape(strings.Join(cleaned, ",")))
	return c.fetch(ctx, "fetch countries", u, true)
}

// SearchByName returns countries whose name matches text. No match is an
// empty result, not an error.
func (c *Client) SearchByName(ctx context.Context, text string) ([]entities.Country, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []entities.Country{}, nil
	}

	u := fmt.Sprintf("%s/v3.1/name/%s", c.baseURL, url.PathEscape(text))
	return c.fetch(ctx, "search countries", u, true)
}

// fetch issues a GET and decodes a JSON array of countries. With
// notFoundIsEmpty a 404 yields an empty slice.
func (c *Client) fetch(ctx context.Context, op, u string, notFoundIsEmpty bool) ([]entities.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFoundIsEmpty {
		return []entities.Country{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{
			Op:         op,
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	var raw []apiCountry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &NetworkError{Op: op, URL: u, Err: fmt.Errorf("decode response: %w", err)}
	}

	return convertAll(raw), nil
}

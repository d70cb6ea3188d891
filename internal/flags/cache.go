package flags

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "Atlas/1.0"

// Cache keeps flag images on local disk so pages remain usable when the flag
// CDN is unreachable.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
}

// NewCache creates a flag cache rooted at cacheDir.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Get returns the cached flag for a country, downloading it on a miss.
// An empty flagURL yields an empty path and no error.
func (c *Cache) Get(ctx context.Context, code, flagURL string) (string, error) {
	if flagURL == "" {
		return "", nil
	}

	cachePath := filepath.Join(c.cacheDir, Filename(code, flagURL))

	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.fetchAndCache(ctx, flagURL, cachePath); err != nil {
		return "", err
	}

	return cachePath, nil
}

// Cached reports the path of an already cached flag without fetching.
func (c *Cache) Cached(code, flagURL string) (string, bool) {
	if flagURL == "" {
		return "", false
	}
	cachePath := filepath.Join(c.cacheDir, Filename(code, flagURL))
	if _, err := os.Stat(cachePath); err != nil {
		return "", false
	}
	return cachePath, true
}

// Invalidate removes every cached flag for a country.
func (c *Cache) Invalidate(code string) error {
	pattern := filepath.Join(c.cacheDir, fmt.Sprintf("flag_%s_*", strings.ToUpper(code)))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// Filename builds flag_<CODE>_<hash>.<ext>. The hash covers the URL so a
// changed flag URL never serves a stale image.
func Filename(code, flagURL string) string {
	hash := sha256.Sum256([]byte(flagURL))
	return fmt.Sprintf("flag_%s_%x%s", strings.ToUpper(code), hash[:8], extension(flagURL))
}

func extension(flagURL string) string {
	u, err := url.Parse(flagURL)
	if err != nil {
		return ".img"
	}
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return ext
	default:
		return ".img"
	}
}

// ContentType guesses the mime type from a cached file name.
func ContentType(cachePath string) string {
	if t := mime.TypeByExtension(filepath.Ext(cachePath)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func (c *Cache) fetchAndCache(ctx context.Context, flagURL, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, flagURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch flag: status %d", resp.StatusCode)
	}

	// Write to a temp file in the same directory so the rename is atomic
	tmpFile, err := os.CreateTemp(c.cacheDir, "flag_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}

	tmpFile.Close()

	return os.Rename(tmpPath, cachePath)
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// Package imagecache keeps downloaded images on disk so a URL dropped twice
// is fetched once.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"

	httputil "github.com/jmylchreest/brandstream/internal/util/http"
)

// DefaultMaxAge is how long a cached download is reused.
const DefaultMaxAge = 24 * time.Hour

// Options configures a Cache.
type Options struct {
	// Dir is where downloads are stored.
	// If empty, defaults to DefaultDir().
	Dir string

	// MaxAge is how long an entry is served without refetching.
	// Zero uses DefaultMaxAge; negative disables reuse.
	MaxAge time.Duration

	Logger hclog.Logger
}

// Cache fetches URLs through an HTTP client and stores the bodies on disk.
type Cache struct {
	client *retryablehttp.Client
	dir    string
	maxAge time.Duration
	logger hclog.Logger
	now    func() time.Time
}

// DefaultDir returns the default cache directory path.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "brandstream", "images"), nil
	}
	return filepath.Join(cacheDir, "brandstream", "images"), nil
}

// New returns a cache that downloads with client.
func New(client *retryablehttp.Client, opts Options) (*Cache, error) {
	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	maxAge := opts.MaxAge
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Cache{
		client: client,
		dir:    dir,
		maxAge: maxAge,
		logger: logger.Named("imagecache"),
		now:    time.Now,
	}, nil
}

// Path returns where the body of url is stored.
func (c *Cache) Path(url string) string {
	return filepath.Join(c.dir, filename(url))
}

// filename is a SHA256 of the URL plus the URL's extension.
func filename(url string) string {
	hash := sha256.Sum256([]byte(url))
	name := fmt.Sprintf("%x", hash[:16])

	ext := filepath.Ext(url)
	if idx := strings.IndexAny(ext, "?#"); idx != -1 {
		ext = ext[:idx]
	}
	if len(ext) < 2 || len(ext) > 5 || strings.ContainsAny(ext, "/:") {
		return name
	}
	return name + strings.ToLower(ext)
}

// Fetch returns the body of url, from disk when a fresh copy exists.
// A failure to write the cache is logged, not returned.
func (c *Cache) Fetch(ctx context.Context, url string) ([]byte, error) {
	path := c.Path(url)

	if c.maxAge > 0 {
		if info, err := os.Stat(path); err == nil && c.now().Sub(info.ModTime()) < c.maxAge {
			data, err := os.ReadFile(path) // #nosec G304 - path is derived from a hash inside the cache dir
			if err == nil {
				c.logger.Debug("cache hit", "url", url)
				return data, nil
			}
		}
	}

	data, err := httputil.Fetch(ctx, c.client, url)
	if err != nil {
		return nil, err
	}

	if err := c.store(path, data); err != nil {
		c.logger.Warn("failed to cache download", "url", url, "error", err)
	}
	return data, nil
}

func (c *Cache) store(path string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, ".download-*")
	if err != nil {
		return fmt.Errorf("failed to write cached image: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cached image: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

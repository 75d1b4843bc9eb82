package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/mholzen/treegrid/pkg/rowmodel"
)

// DefaultCacheTTL is how long cached records are served without refetching.
const DefaultCacheTTL = 1 * time.Minute

type cacheFile struct {
	Timestamp int64              `json:"timestamp"`
	Records   []hierarchy.Record `json:"records"`
}

// CachedSource serves records from a JSON file while it is fresh and falls
// back to a stale copy when the upstream source fails.
type CachedSource struct {
	upstream rowmodel.Source
	path     string
	ttl      time.Duration
	now      func() time.Time
}

func Cached(upstream rowmodel.Source, path string, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{upstream: upstream, path: path, ttl: ttl, now: time.Now}
}

func (c *CachedSource) Records(ctx context.Context) ([]hierarchy.Record, error) {
	cached, err := c.read()
	if err != nil {
		slog.Warn("cannot read cache, will fetch from source", "error", err)
	}

	if cached != nil && c.age(cached) < c.ttl {
		slog.Info("using cached records", "age_seconds", int(c.age(cached).Seconds()))
		return cached.Records, nil
	}

	records, err := c.upstream.Records(ctx)
	if err != nil {
		if cached != nil {
			slog.Warn("source failed, using stale cache", "age_seconds", int(c.age(cached).Seconds()), "error", err)
			return cached.Records, nil
		}
		return nil, err
	}

	if err := c.write(records); err != nil {
		slog.Warn("cannot write cache (continuing anyway)", "error", err)
	}
	return records, nil
}

func (c *CachedSource) Close(ctx context.Context) error {
	return Close(ctx, c.upstream)
}

func (c *CachedSource) age(cached *cacheFile) time.Duration {
	return c.now().Sub(time.Unix(cached.Timestamp, 0))
}

func (c *CachedSource) read() (*cacheFile, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("cache file does not exist", "path", c.path)
			return nil, nil
		}
		return nil, fmt.Errorf("error reading cache file: %w", err)
	}

	var cached cacheFile
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("error parsing cache file: %w", err)
	}
	return &cached, nil
}

func (c *CachedSource) write(records []hierarchy.Record) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("error creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cacheFile{Timestamp: c.now().Unix(), Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding cache data: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("error writing cache file: %w", err)
	}
	slog.Debug("cache file written", "path", c.path, "records", len(records))
	return nil
}

// Package catalog caches the posting catalog snapshot (cities, companies,
// roles) used as vocabulary by the normalizer and the intent heuristic.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/logger"
	"github.com/kailas-cloud/jobscout/internal/metrics"
)

// DefaultTTL is the snapshot refresh interval.
const DefaultTTL = time.Hour

// Source computes a fresh snapshot from the posting store.
type Source interface {
	Catalog(ctx context.Context) (domain.CatalogSnapshot, error)
}

// Options configures the cache.
type Options struct {
	TTL time.Duration

	// Cities and Companies are static vocabulary merged into every snapshot.
	Cities    []string
	Companies []string
	Now       func() time.Time
}

// Cache serves the latest snapshot and refreshes it once the TTL expires.
// A failed refresh keeps the previous snapshot.
type Cache struct {
	src    Source
	opts   Options
	group  singleflight.Group
	mu     sync.RWMutex
	snap   domain.CatalogSnapshot
	loaded time.Time
}

// NewCache creates a cache. src may be nil; the static vocabulary is then the whole catalog.
func NewCache(src Source, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Cache{src: src, opts: opts}
	c.snap = c.merge(domain.CatalogSnapshot{ComputedAt: opts.Now().UTC()})
	return c
}

// Get returns the current snapshot, refreshing it when stale.
func (c *Cache) Get(ctx context.Context) domain.CatalogSnapshot {
	c.mu.RLock()
	snap, loaded := c.snap, c.loaded
	c.mu.RUnlock()

	if c.src == nil || (!loaded.IsZero() && c.opts.Now().Sub(loaded) < c.opts.TTL) {
		return snap
	}

	if err := c.Refresh(ctx); err != nil {
		logger.Component(ctx, "catalog").Warn("Catalog refresh failed, serving previous snapshot", zap.Error(err))
		metrics.Fallback("catalog", "refresh_error")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Refresh recomputes the snapshot from the source. Concurrent callers share one query.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.src == nil {
		return nil
	}
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		fresh, err := c.src.Catalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("compute catalog: %w", err)
		}
		if fresh.ComputedAt.IsZero() {
			fresh.ComputedAt = c.opts.Now().UTC()
		}
		merged := c.merge(fresh)

		c.mu.Lock()
		c.snap = merged
		c.loaded = c.opts.Now()
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

func (c *Cache) merge(s domain.CatalogSnapshot) domain.CatalogSnapshot {
	s.Cities = union(s.Cities, c.opts.Cities)
	s.Companies = union(s.Companies, c.opts.Companies)
	s.Roles = union(s.Roles, nil)
	return s
}

// union merges lists case-insensitively, keeping the first spelling, sorted.
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, v := range slices.Concat(a, b) {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	slices.SortFunc(out, func(x, y string) int {
		return strings.Compare(strings.ToLower(x), strings.ToLower(y))
	})
	return out
}

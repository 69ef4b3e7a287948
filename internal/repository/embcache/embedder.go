// Package embcache caches query embeddings in Redis/Valkey.
//
// Job seekers repeat the same short queries ("sygeplejerske aarhus",
// "lagermedarbejder"), so the cache sits between the instrumented embedder and
// the provider. Entries are keyed by model and whitespace-folded text and
// stored as little-endian float32 blobs with a TTL.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/jobscout/internal/db"
	"github.com/kailas-cloud/jobscout/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "qemb:"

// Cache results reported on the counter.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultStale = "stale"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config controls key namespacing and expiry.
type Config struct {
	// Model is part of the key so switching models never serves stale vectors.
	Model string
	TTL   time.Duration

	// Dimensions, when set, rejects cached vectors of another length.
	Dimensions int
}

// CachedEmbedder caches query embeddings keyed by model and text.
// Concurrent misses for the same key share one provider call.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	cfg        Config
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" (hit/miss/stale); nil disables counting.
func New(
	inner domain.Embedder,
	s store,
	cfg Config,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		cfg:        cfg,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a cached embedding or calls the inner embedder.
// A cache hit reports zero tokens. Cache failures never fail the call.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	vec, result := c.lookup(ctx, key)
	c.inc(result)
	if vec != nil {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		res, err := c.inner.Embed(ctx, text)
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped below
		}
		c.save(ctx, key, res.Embedding)
		return res, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed query: %w", err)
	}

	res := v.(domain.EmbeddingResult) //nolint:forcetypeassert // only EmbeddingResult is returned above
	if shared {
		// The tokens were billed to the first caller.
		return domain.EmbeddingResult{Embedding: res.Embedding}, nil
	}
	return res, nil
}

// HealthCheck forwards to the inner embedder; the cache itself is optional.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

func (c *CachedEmbedder) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey folds whitespace so "Sygeplejerske  Aarhus " and "Sygeplejerske Aarhus" share an entry.
func (c *CachedEmbedder) cacheKey(text string) string {
	folded := strings.Join(strings.Fields(text), " ")
	h := sha256.Sum256([]byte(c.cfg.Model + "\x00" + folded))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, string) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cached query embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, resultMiss
	}
	if len(data) == 0 {
		return nil, resultMiss
	}

	vec, err := decodeVector(data)
	if err != nil {
		c.logger.Warn("Discarding corrupt cached query embedding", zap.String("key", key), zap.Error(err))
		return nil, resultStale
	}
	if c.cfg.Dimensions > 0 && len(vec) != c.cfg.Dimensions {
		return nil, resultStale
	}
	return vec, resultHit
}

func (c *CachedEmbedder) save(ctx context.Context, key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, encodeVector(vec), c.cfg.TTL); err != nil {
		c.logger.Warn("Failed to cache query embedding", zap.String("key", key), zap.Error(err))
	}
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("cached embedding length %d is not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}

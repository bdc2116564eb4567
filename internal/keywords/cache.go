// internal/keywords/cache.go
package keywords

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"ticket-classifier/internal/classification"
	apperrors "ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/common/logger"
	"ticket-classifier/internal/common/metrics"
)

// DefaultCacheKey prefixes the cache key of every source.
const DefaultCacheKey = "tickets:keyword_map"

// CacheKey is the Redis key holding the map loaded from the named source, so
// two sources never share an entry.
func CacheKey(sourceName string) string {
	return DefaultCacheKey + ":" + sourceName
}

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// CachedSource keeps the keyword map of an inner source in Redis. The map is
// stored as a JSON list of category entries so order survives the round trip.
// Cache failures never fail a Load.
type CachedSource struct {
	redis  redis.Cmdable
	inner  Source
	ttl    time.Duration
	key    string
	logger logger.Logger
}

func NewCachedSource(rdb redis.Cmdable, inner Source, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{
		redis:  rdb,
		inner:  inner,
		ttl:    ttl,
		key:    CacheKey(inner.Name()),
		logger: log.WithFields(map[string]interface{}{"source": inner.Name()}),
	}
}

// WithKey returns a copy using a different cache key.
func (s *CachedSource) WithKey(key string) *CachedSource {
	c := *s
	c.key = key
	return &c
}

func (s *CachedSource) Name() string {
	return "redis(" + s.inner.Name() + ")"
}

func (s *CachedSource) Load(ctx context.Context) (*classification.KeywordMap, error) {
	if km, ok := s.lookup(ctx); ok {
		return km, nil
	}

	km, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.store(ctx, km)
	return km, nil
}

// Invalidate drops the cached map so the next Load reads the inner source.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return apperrors.NewCacheUnavailableError(err)
	}
	return nil
}

func (s *CachedSource) lookup(ctx context.Context) (*classification.KeywordMap, bool) {
	val, err := s.redis.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.KeywordCacheLookups.WithLabelValues(cacheMiss).Inc()
		return nil, false
	}
	if err != nil {
		s.degrade("keyword cache read failed", err)
		return nil, false
	}

	var km classification.KeywordMap
	if err := json.Unmarshal(val, &km); err != nil {
		s.degrade("keyword cache entry is corrupt", err)
		return nil, false
	}

	metrics.KeywordCacheLookups.WithLabelValues(cacheHit).Inc()
	return &km, true
}

func (s *CachedSource) store(ctx context.Context, km *classification.KeywordMap) {
	data, err := json.Marshal(km)
	if err != nil {
		s.degrade("keyword map encode failed", err)
		return
	}
	if err := s.redis.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		s.degrade("keyword cache write failed", err)
	}
}

func (s *CachedSource) degrade(msg string, err error) {
	metrics.KeywordCacheLookups.WithLabelValues(cacheError).Inc()
	s.logger.Warn(msg, map[string]interface{}{
		"key":   s.key,
		"error": apperrors.NewCacheUnavailableError(err).Error(),
	})
}

package extract

import (
	"context"
	"log"
	"time"

	"github.com/paperforge/paperforge/internal/platform/cache"
)

// CachedExtractor memoizes extracted text in the cache so re-opening the same
// source does not re-run extraction. Cache trouble is logged and treated as a
// miss; extraction still answers.
type CachedExtractor struct {
	inner Extractor
	cache *cache.Cache
	ttl   time.Duration
}

func NewCachedExtractor(inner Extractor, c *cache.Cache, ttl time.Duration) *CachedExtractor {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedExtractor{inner: inner, cache: c, ttl: ttl}
}

func (c *CachedExtractor) Extract(ctx context.Context, ref string) (string, error) {
	key := "extract:" + ref
	if c.cache != nil {
		if text, err := c.cache.Client.Get(ctx, key).Result(); err == nil {
			return text, nil
		}
	}

	text, err := c.inner.Extract(ctx, ref)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.Client.Set(ctx, key, text, c.ttl).Err(); err != nil {
			log.Printf("extract cache set %s: %v", ref, err)
		}
	}
	return text, nil
}

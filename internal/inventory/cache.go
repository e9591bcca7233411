package inventory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:             10 * time.Minute,
		CleanupInterval: 30 * time.Minute,
	}
}

// CachedEvaluator memoizes successful evaluations by expression text.
// Failed evaluations are never cached.
type CachedEvaluator struct {
	cache *cache.Cache
}

func NewCachedEvaluator(config CacheConfig) *CachedEvaluator {
	return &CachedEvaluator{
		cache: cache.New(config.TTL, config.CleanupInterval),
	}
}

// Evaluate returns the value of expr and whether it came from the cache.
func (e *CachedEvaluator) Evaluate(expr string) (int, bool, error) {
	if v, found := e.cache.Get(expr); found {
		return v.(int), true, nil
	}

	v, err := Evaluate(expr)
	if err != nil {
		return 0, false, err
	}
	e.cache.Set(expr, v, cache.DefaultExpiration)
	return v, false, nil
}

func (e *CachedEvaluator) Len() int {
	return e.cache.ItemCount()
}

func (e *CachedEvaluator) Flush() {
	e.cache.Flush()
}

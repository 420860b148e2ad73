package fetch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/matzehuels/mydungeon/pkg/cache"
	"github.com/matzehuels/mydungeon/pkg/observability"
)

const keyTypeNumbers = "numbers"

// CachedFetcher remembers successful fetches. Empty results are never
// cached so that a transient site problem is retried on the next call.
// Cache failures are logged and bypassed.
type CachedFetcher struct {
	inner  Fetcher
	cache  cache.Cache
	keyer  cache.Keyer
	source string
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedFetcher wraps inner. source distinguishes entries from
// different upstreams sharing one cache; a nil keyer uses the default.
func NewCachedFetcher(inner Fetcher, c cache.Cache, keyer cache.Keyer, source string, ttl time.Duration, logger *log.Logger) *CachedFetcher {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CachedFetcher{inner: inner, cache: c, keyer: keyer, source: source, ttl: ttl, logger: logger}
}

func (f *CachedFetcher) FetchNumbers(ctx context.Context, birthdate, birthtime string) ([]int, error) {
	key := f.keyer.NumbersKey(f.source, birthdate, birthtime)
	hooks := observability.Cache()

	data, hit, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Warn("cache read failed", "err", err)
	}
	if hit {
		var nums []int
		if err := json.Unmarshal(data, &nums); err == nil {
			hooks.OnCacheHit(ctx, keyTypeNumbers)
			f.logger.Debug("numbers cache hit", "birthdate", birthdate, "birthtime", birthtime)
			return nums, nil
		}
		f.logger.Warn("discarding corrupt cache entry", "key", key)
	}
	hooks.OnCacheMiss(ctx, keyTypeNumbers)

	nums, err := f.inner.FetchNumbers(ctx, birthdate, birthtime)
	if err != nil || len(nums) == 0 {
		return nums, err
	}
	if data, err := json.Marshal(nums); err == nil {
		if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
			f.logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeNumbers, len(data))
		}
	}
	return nums, nil
}

// RateLimited spaces out calls to inner. Calls beyond the burst block
// until the limiter admits them or ctx ends.
type RateLimited struct {
	inner   Fetcher
	limiter *rate.Limiter
}

// NewRateLimited allows one call per interval with a burst of burst.
func NewRateLimited(inner Fetcher, interval time.Duration, burst int) *RateLimited {
	return &RateLimited{inner: inner, limiter: rate.NewLimiter(rate.Every(interval), max(burst, 1))}
}

func (f *RateLimited) FetchNumbers(ctx context.Context, birthdate, birthtime string) ([]int, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return f.inner.FetchNumbers(ctx, birthdate, birthtime)
}

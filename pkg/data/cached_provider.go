package data

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
)

// MemoryCache implements PriceCache using in-memory storage
type MemoryCache struct {
	cache map[string][]types.OHLCV
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.OHLCV),
	}
}

// Get retrieves a series from cache if available
func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, exists := c.cache[key]
	if exists {
		// Return a copy to prevent external modifications
		result := make([]types.OHLCV, len(data))
		copy(result, data)
		return result, true
	}

	return nil, false
}

// Set stores a series in cache
func (c *MemoryCache) Set(key string, data []types.OHLCV) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Store a copy to prevent external modifications
	cached := make([]types.OHLCV, len(data))
	copy(cached, data)
	c.cache[key] = cached
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]types.OHLCV)
}

// Size returns the number of cached entries
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CachedProvider wraps another PriceProvider with caching so repeated
// assessments over the same range do not refetch
type CachedProvider struct {
	provider PriceProvider
	cache    PriceCache
}

// NewCachedProvider creates a new cached price provider
func NewCachedProvider(provider PriceProvider) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    NewMemoryCache(),
	}
}

// NewCachedProviderWithCache creates a new cached price provider with a custom cache
func NewCachedProviderWithCache(provider PriceProvider, cache PriceCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
	}
}

// GetName returns the name of the underlying provider with cache indication
func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// FetchPrices fetches a series with caching keyed by symbol and range
func (p *CachedProvider) FetchPrices(ctx context.Context, symbol string, start, end time.Time) ([]types.OHLCV, error) {
	key := cacheKey(symbol, start, end)
	if cachedData, exists := p.cache.Get(key); exists {
		return cachedData, nil
	}

	data, err := p.provider.FetchPrices(ctx, symbol, start, end)
	if err != nil {
		log.Printf("❌ Failed to fetch prices for %s: %v", symbol, err)
		return nil, err
	}

	p.cache.Set(key, data)

	log.Printf("✅ Fetched and cached %d candles for %s", len(data), symbol)
	return data, nil
}

// GetCache returns the underlying cache for external management
func (p *CachedProvider) GetCache() PriceCache {
	return p.cache
}

// ClearCache clears all cached data
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}

// cacheKey builds the cache key for a symbol and date range
func cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s|%d|%d", symbol, start.Unix(), end.Unix())
}

package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider records how many fetches reached the backend
type countingProvider struct {
	calls int
	data  []types.OHLCV
	err   error
}

func (p *countingProvider) FetchPrices(ctx context.Context, symbol string, start, end time.Time) ([]types.OHLCV, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.data, nil
}

func (p *countingProvider) GetName() string {
	return "Counting Provider"
}

func TestCachedProvider_GetName(t *testing.T) {
	p := NewCachedProvider(&countingProvider{})
	assert.Equal(t, "Cached Counting Provider", p.GetName())
}

func TestCachedProvider_SecondFetchHitsCache(t *testing.T) {
	backend := &countingProvider{data: candlesAt(0, 1, 2)}
	p := NewCachedProvider(backend)

	start := filterBaseTime
	end := filterBaseTime.AddDate(0, 0, 5)

	first, err := p.FetchPrices(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)
	second, err := p.FetchPrices(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, first, second)
}

func TestCachedProvider_DifferentRangesMissCache(t *testing.T) {
	backend := &countingProvider{data: candlesAt(0, 1, 2)}
	p := NewCachedProvider(backend)

	start := filterBaseTime
	_, err := p.FetchPrices(context.Background(), "BTCUSDT", start, start.AddDate(0, 0, 5))
	require.NoError(t, err)
	_, err = p.FetchPrices(context.Background(), "BTCUSDT", start, start.AddDate(0, 0, 6))
	require.NoError(t, err)

	assert.Equal(t, 2, backend.calls)
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	backend := &countingProvider{err: errors.New("backend down")}
	p := NewCachedProvider(backend)

	start := filterBaseTime
	end := start.AddDate(0, 0, 5)

	_, err := p.FetchPrices(context.Background(), "BTCUSDT", start, end)
	require.Error(t, err)
	_, err = p.FetchPrices(context.Background(), "BTCUSDT", start, end)
	require.Error(t, err)

	assert.Equal(t, 2, backend.calls)
	assert.Equal(t, 0, p.GetCache().Size())
}

func TestCachedProvider_ClearCache(t *testing.T) {
	backend := &countingProvider{data: candlesAt(0, 1)}
	p := NewCachedProvider(backend)

	start := filterBaseTime
	end := start.AddDate(0, 0, 5)

	_, err := p.FetchPrices(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)
	require.Equal(t, 1, p.GetCache().Size())

	p.ClearCache()
	assert.Equal(t, 0, p.GetCache().Size())

	_, err = p.FetchPrices(context.Background(), "BTCUSDT", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
}

func TestMemoryCache_CopiesOnGet(t *testing.T) {
	cache := NewMemoryCache()
	cache.Set("k", candlesAt(0, 1))

	got, ok := cache.Get("k")
	require.True(t, ok)
	got[0].Close = 9999

	again, ok := cache.Get("k")
	require.True(t, ok)
	assert.NotEqual(t, 9999.0, again[0].Close)
}

func TestMemoryCache_MissingKey(t *testing.T) {
	cache := NewMemoryCache()

	_, ok := cache.Get("missing")
	assert.False(t, ok)
}

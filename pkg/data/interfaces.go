package data

import (
	"context"
	"time"

	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
)

// PriceProvider is the capability the risk engine consumes: an ordered daily
// price series for one symbol over a date range. An empty slice means no data
// is available for the symbol; the engine degrades to its fallback path.
type PriceProvider interface {
	// FetchPrices returns candles with timestamps inside [start, end],
	// chronologically increasing, no duplicate timestamps
	FetchPrices(ctx context.Context, symbol string, start, end time.Time) ([]types.OHLCV, error)

	// GetName returns the name of the price provider
	GetName() string
}

// PriceCache interface for caching fetched series
type PriceCache interface {
	// Get retrieves a series from cache if available
	Get(key string) ([]types.OHLCV, bool)

	// Set stores a series in cache
	Set(key string, data []types.OHLCV)

	// Clear removes all cached data
	Clear()

	// Size returns the number of cached entries
	Size() int
}

// CSVColumnMapping defines the column positions for different CSV formats
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
}

// DefaultCSVFormat matches the candle dumps produced by the download scripts
var DefaultCSVFormat = CSVColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	DateFormat:   "2006-01-02 15:04:05",
}

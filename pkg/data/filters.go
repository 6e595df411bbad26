package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
)

// DefaultDataFilter implements common series filtering operations
type DefaultDataFilter struct{}

// NewDefaultDataFilter creates a new default data filter
func NewDefaultDataFilter() *DefaultDataFilter {
	return &DefaultDataFilter{}
}

// FilterByDateRange filters candles to a specific date range (inclusive)
func (f *DefaultDataFilter) FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV {
	if len(data) == 0 {
		return data
	}

	var filtered []types.OHLCV

	for _, candle := range data {
		if (candle.Timestamp.After(start) || candle.Timestamp.Equal(start)) &&
			(candle.Timestamp.Before(end) || candle.Timestamp.Equal(end)) {
			filtered = append(filtered, candle)
		}
	}

	return filtered
}

// ValidateTimeSequence ensures data is in chronological order with no duplicates
func (f *DefaultDataFilter) ValidateTimeSequence(data []types.OHLCV) error {
	if len(data) <= 1 {
		return nil // Single item or empty is always valid
	}

	for i := 1; i < len(data); i++ {
		if data[i].Timestamp.Before(data[i-1].Timestamp) {
			return fmt.Errorf("data not in chronological order at index %d: %s comes after %s",
				i, data[i].Timestamp.Format(time.RFC3339), data[i-1].Timestamp.Format(time.RFC3339))
		}

		if data[i].Timestamp.Equal(data[i-1].Timestamp) {
			return fmt.Errorf("duplicate timestamp at index %d: %s",
				i, data[i].Timestamp.Format(time.RFC3339))
		}
	}

	return nil
}

// SortByTimestamp sorts candles by timestamp (ascending order)
func (f *DefaultDataFilter) SortByTimestamp(data []types.OHLCV) []types.OHLCV {
	if len(data) <= 1 {
		return data
	}

	// Create a copy to avoid modifying original
	sorted := make([]types.OHLCV, len(data))
	copy(sorted, data)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return sorted
}

// RemoveDuplicates removes duplicate timestamps, keeping the first occurrence
func (f *DefaultDataFilter) RemoveDuplicates(data []types.OHLCV) []types.OHLCV {
	if len(data) <= 1 {
		return data
	}

	var filtered []types.OHLCV
	seen := make(map[int64]bool)

	for _, candle := range data {
		timestamp := candle.Timestamp.Unix()
		if !seen[timestamp] {
			seen[timestamp] = true
			filtered = append(filtered, candle)
		}
	}

	return filtered
}

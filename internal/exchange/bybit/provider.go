package bybit

import (
	"context"
	"fmt"
	"time"

	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
)

const klinePageLimit = 1000

// Provider adapts the Bybit client to the PriceProvider interface,
// serving daily spot candles for risk calculations.
type Provider struct {
	client   *Client
	category string
}

// NewProvider creates a new Bybit-backed price provider
func NewProvider(client *Client) *Provider {
	return &Provider{
		client:   client,
		category: "spot",
	}
}

// GetName returns the provider name with the environment it targets
func (p *Provider) GetName() string {
	return fmt.Sprintf("Bybit Provider (%s)", p.client.GetEnvironment())
}

// FetchPrices fetches daily candles for a symbol within the date range,
// paginating through the kline endpoint until the range is covered.
// Results are sorted oldest first.
func (p *Provider) FetchPrices(ctx context.Context, symbol string, start, end time.Time) ([]types.OHLCV, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid date range: end %s before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	var all []types.OHLCV
	cursor := start

	for !cursor.After(end) {
		params := KlineParams{
			Category: p.category,
			Symbol:   symbol,
			Interval: Interval1d,
			Start:    &cursor,
			End:      &end,
			Limit:    klinePageLimit,
		}

		var klines []Kline
		err := p.client.Retry(ctx, func() error {
			var fetchErr error
			klines, fetchErr = p.client.GetKlines(ctx, params)
			return fetchErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch klines for %s: %w", symbol, err)
		}

		if len(klines) == 0 {
			break
		}

		for _, k := range klines {
			if k.StartTime.Before(start) || k.StartTime.After(end) {
				continue
			}
			all = append(all, types.OHLCV{
				Open:      k.OpenPrice,
				High:      k.HighPrice,
				Low:       k.LowPrice,
				Close:     k.ClosePrice,
				Volume:    k.Volume,
				Timestamp: k.StartTime,
			})
		}

		last := klines[len(klines)-1].StartTime
		if !last.After(cursor) {
			break // No forward progress, avoid an infinite loop
		}
		cursor = last.Add(24 * time.Hour)

		if len(klines) < klinePageLimit {
			break
		}
	}

	return all, nil
}

package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// KlineInterval represents the time interval for kline data
type KlineInterval string

// Interval1d is the only granularity the risk engine consumes
const Interval1d KlineInterval = "D"

// Kline represents a single kline/candlestick data point
type Kline struct {
	StartTime  time.Time
	OpenPrice  float64
	HighPrice  float64
	LowPrice   float64
	ClosePrice float64
	Volume     float64
	Turnover   float64
}

// KlineParams holds parameters for fetching kline data
type KlineParams struct {
	Category string        // "spot", "linear", "inverse"
	Symbol   string        // Trading pair symbol (e.g., "BTCUSDT")
	Interval KlineInterval // Time interval
	Start    *time.Time    // Start time (optional)
	End      *time.Time    // End time (optional)
	Limit    int           // Number of records to return (max 1000, default 200)
}

// GetKlines fetches kline/candlestick data from Bybit, oldest first
func (c *Client) GetKlines(ctx context.Context, params KlineParams) ([]Kline, error) {
	if params.Category == "" {
		params.Category = "spot"
	}
	if params.Limit == 0 {
		params.Limit = 200
	}
	if params.Limit > 1000 {
		params.Limit = 1000
	}

	reqParams := map[string]interface{}{
		"category": params.Category,
		"symbol":   params.Symbol,
		"interval": string(params.Interval),
		"limit":    params.Limit,
	}

	if params.Start != nil {
		reqParams["start"] = params.Start.UnixMilli()
	}
	if params.End != nil {
		reqParams["end"] = params.End.UnixMilli()
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(reqParams).GetMarketKline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	klines, err := parseKlineResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kline response: %w", err)
	}

	// Bybit returns newest first; callers expect chronological order
	sort.Slice(klines, func(i, j int) bool {
		return klines[i].StartTime.Before(klines[j].StartTime)
	})

	return klines, nil
}

// asServerResponse converts a raw API response into the standard
// Bybit response wrapper and checks the return code
func asServerResponse(response interface{}) (*bybit_api.ServerResponse, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", response)
	}

	if err := ParseAPIError(serverResp.RetCode, serverResp.RetMsg); err != nil {
		return nil, err
	}

	return serverResp, nil
}

// parseKlineResponse parses the API response into Kline structs
func parseKlineResponse(response interface{}) ([]Kline, error) {
	serverResp, err := asServerResponse(response)
	if err != nil {
		return nil, err
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var klineResult struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	}

	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	var klines []Kline
	for _, item := range klineResult.List {
		if len(item) < 7 {
			continue // Skip incomplete data
		}

		// Bybit kline format: [startTime, openPrice, highPrice, lowPrice, closePrice, volume, turnover]
		kline := Kline{
			StartTime:  time.UnixMilli(parseInt64(item[0])),
			OpenPrice:  parseFloat64(item[1]),
			HighPrice:  parseFloat64(item[2]),
			LowPrice:   parseFloat64(item[3]),
			ClosePrice: parseFloat64(item[4]),
			Volume:     parseFloat64(item[5]),
			Turnover:   parseFloat64(item[6]),
		}
		klines = append(klines, kline)
	}

	return klines, nil
}

// Helper functions for parsing string numbers
func parseFloat64(s string) float64 {
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	i, _ := strconv.ParseInt(s, 10, 64)
	return i
}

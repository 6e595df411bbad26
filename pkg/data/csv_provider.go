package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
)

// CSVProvider implements PriceProvider on top of per-symbol candle files.
// A symbol's series lives at <dataRoot>/<SYMBOL>.csv or, for trees produced
// by the download scripts, <dataRoot>/<SYMBOL>/1d/candles.csv.
type CSVProvider struct {
	dataRoot string
	format   CSVColumnMapping
	filter   *DefaultDataFilter
}

// NewCSVProvider creates a CSV price provider rooted at dataRoot
func NewCSVProvider(dataRoot string) *CSVProvider {
	return &CSVProvider{
		dataRoot: dataRoot,
		format:   DefaultCSVFormat,
		filter:   NewDefaultDataFilter(),
	}
}

// NewCSVProviderWithFormat creates a CSV price provider with a custom column mapping
func NewCSVProviderWithFormat(dataRoot string, format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{
		dataRoot: dataRoot,
		format:   format,
		filter:   NewDefaultDataFilter(),
	}
}

// GetName returns the name of the price provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// FetchPrices loads the symbol's candle file and narrows it to [start, end].
// A missing file is not an error: the symbol simply has no data.
func (p *CSVProvider) FetchPrices(ctx context.Context, symbol string, start, end time.Time) ([]types.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.resolveFile(symbol)
	if path == "" {
		log.Printf("⚠️ No candle file found for %s under %s", symbol, p.dataRoot)
		return nil, nil
	}

	data, err := p.loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load candles for %s: %w", symbol, err)
	}

	if err := p.filter.ValidateTimeSequence(data); err != nil {
		return nil, fmt.Errorf("bad candle sequence for %s: %w", symbol, err)
	}

	return p.filter.FilterByDateRange(data, start, end), nil
}

// resolveFile locates the candle file for a symbol, trying the flat layout
// first and then the per-symbol directory layout.
func (p *CSVProvider) resolveFile(symbol string) string {
	candidates := []string{
		filepath.Join(p.dataRoot, symbol+".csv"),
		filepath.Join(p.dataRoot, symbol, "1d", "candles.csv"),
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// loadFile parses one candle file with the configured column mapping
func (p *CSVProvider) loadFile(filename string) ([]types.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, err
	}

	format := p.format
	var data []types.OHLCV

	lineNum := 1 // Start from 1 since we already read header
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %v", lineNum, err)
		}
		lineNum++

		if len(record) < format.MinColumns {
			log.Printf("⚠️ Insufficient columns at line %d (expected %d, got %d), skipping", lineNum, format.MinColumns, len(record))
			continue
		}

		timestamp, err := time.Parse(format.DateFormat, record[format.TimestampCol])
		if err != nil {
			log.Printf("⚠️ Invalid timestamp '%s' at line %d, skipping: %v", record[format.TimestampCol], lineNum, err)
			continue
		}

		open, err := strconv.ParseFloat(record[format.OpenCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid open price '%s' at line %d, skipping: %v", record[format.OpenCol], lineNum, err)
			continue
		}

		high, err := strconv.ParseFloat(record[format.HighCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid high price '%s' at line %d, skipping: %v", record[format.HighCol], lineNum, err)
			continue
		}

		low, err := strconv.ParseFloat(record[format.LowCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid low price '%s' at line %d, skipping: %v", record[format.LowCol], lineNum, err)
			continue
		}

		close, err := strconv.ParseFloat(record[format.CloseCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid close price '%s' at line %d, skipping: %v", record[format.CloseCol], lineNum, err)
			continue
		}

		volume, err := strconv.ParseFloat(record[format.VolumeCol], 64)
		if err != nil {
			log.Printf("⚠️ Invalid volume '%s' at line %d, skipping: %v", record[format.VolumeCol], lineNum, err)
			continue
		}

		if open <= 0 || high <= 0 || low <= 0 || close <= 0 {
			log.Printf("⚠️ Invalid price data (negative or zero) at line %d, skipping", lineNum)
			continue
		}

		if high < open || high < close || high < low {
			log.Printf("⚠️ High price is lower than other prices at line %d, skipping", lineNum)
			continue
		}

		if low > open || low > close || low > high {
			log.Printf("⚠️ Low price is higher than other prices at line %d, skipping", lineNum)
			continue
		}

		data = append(data, types.OHLCV{
			Timestamp: timestamp,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
		})
	}

	return data, nil
}

// ValidateData validates the integrity of a loaded series
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	if len(data) == 0 {
		return fmt.Errorf("no data provided")
	}

	for i, candle := range data {
		if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
			return fmt.Errorf("invalid price data at index %d: prices must be positive", i)
		}

		if candle.High < candle.Low {
			return fmt.Errorf("invalid price data at index %d: high (%.4f) cannot be less than low (%.4f)",
				i, candle.High, candle.Low)
		}

		if i > 0 && !candle.Timestamp.After(data[i-1].Timestamp) {
			return fmt.Errorf("invalid timestamp sequence at index %d: timestamps must be strictly increasing", i)
		}
	}

	return nil
}

package risk

import "fmt"

// Config holds the risk parameters for one engine instance. It is a plain
// immutable value passed to NewEngine, so multiple profiles (e.g. per venue)
// can run side by side without sharing state.
type Config struct {
	// SafeDailyVolatility is the fallback daily volatility used when a
	// symbol has no usable return history. Unknown risk is treated as
	// maximal risk, so the fallback also pins the percentile to 100.
	SafeDailyVolatility float64

	// ExtremeDailyVolatility marks a daily volatility considered extreme;
	// reporting uses it to flag symbols.
	ExtremeDailyVolatility float64

	// MaxPositionSize is the base allocation ceiling as a fraction of
	// portfolio value before the volatility and correlation adjustments.
	MaxPositionSize float64

	// MinPositionSize is the smallest allocation fraction worth trading.
	// The engine reports it but does not clamp: the combined percentage is
	// intentionally left un-reclamped after the correlation multiplier.
	MinPositionSize float64

	// CorrelationWarningThreshold marks a pairwise correlation considered
	// high concentration risk; reporting uses it to flag symbols.
	CorrelationWarningThreshold float64

	// LookbackSamples is how many trailing returns feed the volatility
	// estimate.
	LookbackSamples int

	// PercentileWindow is the rolling window used to rank current
	// volatility against the symbol's own history.
	PercentileWindow int

	// MinAlignedRows is the minimum number of timestamp-aligned return rows
	// required before correlations are computed.
	MinAlignedRows int

	// MinCorrelationSymbols is the minimum number of symbols with return
	// data required before correlations are computed.
	MinCorrelationSymbols int

	// AnnualizationDays scales daily volatility to annualized. 365 because
	// crypto trades every calendar day.
	AnnualizationDays float64

	// FetchWorkers bounds the parallel price fetches. Zero means one worker
	// per CPU.
	FetchWorkers int
}

// DefaultConfig returns the crypto risk profile used in production.
func DefaultConfig() Config {
	return Config{
		SafeDailyVolatility:         0.03,
		ExtremeDailyVolatility:      0.10,
		MaxPositionSize:             0.15,
		MinPositionSize:             0.02,
		CorrelationWarningThreshold: 0.70,
		LookbackSamples:             60,
		PercentileWindow:            30,
		MinAlignedRows:              5,
		MinCorrelationSymbols:       2,
		AnnualizationDays:           365,
		FetchWorkers:                0,
	}
}

// Validate rejects nonsensical parameter combinations once at construction
// so the numeric code never has to re-check them.
func (c Config) Validate() error {
	if c.SafeDailyVolatility <= 0 {
		return fmt.Errorf("safe daily volatility must be positive, got %v", c.SafeDailyVolatility)
	}
	if c.MaxPositionSize <= 0 || c.MaxPositionSize > 1 {
		return fmt.Errorf("max position size must be in (0, 1], got %v", c.MaxPositionSize)
	}
	if c.MinPositionSize < 0 || c.MinPositionSize > c.MaxPositionSize {
		return fmt.Errorf("min position size must be in [0, max position size], got %v", c.MinPositionSize)
	}
	if c.LookbackSamples < 2 {
		return fmt.Errorf("lookback must cover at least 2 samples, got %d", c.LookbackSamples)
	}
	if c.PercentileWindow < 2 {
		return fmt.Errorf("percentile window must cover at least 2 samples, got %d", c.PercentileWindow)
	}
	if c.MinAlignedRows < 2 {
		return fmt.Errorf("min aligned rows must be at least 2, got %d", c.MinAlignedRows)
	}
	if c.MinCorrelationSymbols < 2 {
		return fmt.Errorf("correlation needs at least 2 symbols, got %d", c.MinCorrelationSymbols)
	}
	if c.AnnualizationDays <= 0 {
		return fmt.Errorf("annualization days must be positive, got %v", c.AnnualizationDays)
	}
	if c.FetchWorkers < 0 {
		return fmt.Errorf("fetch workers cannot be negative, got %d", c.FetchWorkers)
	}
	return nil
}

package risk

import (
	"math"

	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
)

// VolatilityEstimator turns a price series into return statistics and a
// percentile rank of current volatility against the symbol's own history.
type VolatilityEstimator struct {
	cfg Config
}

// NewVolatilityEstimator creates a volatility estimator with the given risk profile
func NewVolatilityEstimator(cfg Config) *VolatilityEstimator {
	return &VolatilityEstimator{cfg: cfg}
}

// Estimate computes volatility metrics from a chronological price series.
// With fewer than two prices or returns there is nothing to measure, so the
// fallback treats the symbol as maximally risky: safe-constant volatility
// and percentile pinned to 100. Unknown risk must never read as low risk.
func (e *VolatilityEstimator) Estimate(prices []types.OHLCV) VolatilityMetrics {
	if len(prices) < 2 {
		return e.fallback(len(prices))
	}

	returns := DailyReturns(prices)
	if len(returns) < 2 {
		return e.fallback(len(returns))
	}

	values := returnValues(returns)

	lookback := e.cfg.LookbackSamples
	if lookback > len(values) {
		lookback = len(values)
	}
	recent := values[len(values)-lookback:]

	dailyVol := sampleStdDev(recent)
	annualizedVol := dailyVol * math.Sqrt(e.cfg.AnnualizationDays)

	// Rank current volatility against the rolling distribution over the
	// full history. Short histories default to the median instead of being
	// penalized as extreme.
	percentile := 50.0
	if len(values) >= e.cfg.PercentileWindow {
		rolling := rollingStdDev(values, e.cfg.PercentileWindow)
		if len(rolling) > 0 {
			atOrBelow := 0
			for _, v := range rolling {
				if v <= dailyVol {
					atOrBelow++
				}
			}
			percentile = float64(atOrBelow) / float64(len(rolling)) * 100
		}
	}

	safe := e.cfg.SafeDailyVolatility
	return VolatilityMetrics{
		DailyVolatility:      replaceNaN(dailyVol, safe),
		AnnualizedVolatility: replaceNaN(annualizedVol, safe*math.Sqrt(e.cfg.AnnualizationDays)),
		VolatilityPercentile: replaceNaN(percentile, 50),
		DataPoints:           len(recent),
	}
}

// fallback is the maximally-risky metrics record for symbols without usable history
func (e *VolatilityEstimator) fallback(sampleCount int) VolatilityMetrics {
	safe := e.cfg.SafeDailyVolatility
	return VolatilityMetrics{
		DailyVolatility:      safe,
		AnnualizedVolatility: safe * math.Sqrt(e.cfg.AnnualizationDays),
		VolatilityPercentile: 100,
		DataPoints:           sampleCount,
	}
}

package risk

import "fmt"

// Volatility multiplier bounds: 0.13x of the 15% base is the extreme-vol
// floor (~2% of portfolio), 1.0x keeps the full base.
const (
	minVolMultiplier = 0.13
	maxVolMultiplier = 1.00
)

// LimitBreakdown carries every intermediate of a limit computation
type LimitBreakdown struct {
	BasePct               float64
	CorrelationMultiplier float64
	CombinedPct           float64
	PositionLimit         float64
	RemainingLimit        float64
	FinalLimit            float64
}

// PositionLimitCalculator maps volatility and correlation into a bounded
// allocation percentage and then into a dollar limit net of current exposure
// and cash.
type PositionLimitCalculator struct {
	cfg Config
}

// NewPositionLimitCalculator creates a limit calculator with the given risk profile
func NewPositionLimitCalculator(cfg Config) *PositionLimitCalculator {
	return &PositionLimitCalculator{cfg: cfg}
}

// VolatilityAdjustedPct returns the allocation percentage of portfolio value
// for a given annualized volatility:
//   - < 25%: up to the full 15% base
//   - 25-50%: tapers 15% -> 10%
//   - 50-75%: tapers 10% -> 5%
//   - 75-100%: ~4.5%
//   - >= 100%: ~2%
func (c *PositionLimitCalculator) VolatilityAdjustedPct(annualizedVolatility float64) float64 {
	var multiplier float64
	switch {
	case annualizedVolatility < 0.25:
		multiplier = 1.00
	case annualizedVolatility < 0.50:
		multiplier = 0.85 - (annualizedVolatility-0.25)*0.4
	case annualizedVolatility < 0.75:
		multiplier = 0.65 - (annualizedVolatility-0.50)*0.6
	case annualizedVolatility < 1.00:
		multiplier = 0.30
	default:
		multiplier = minVolMultiplier
	}

	if multiplier < minVolMultiplier {
		multiplier = minVolMultiplier
	}
	if multiplier > maxVolMultiplier {
		multiplier = maxVolMultiplier
	}

	return c.cfg.MaxPositionSize * multiplier
}

// CorrelationMultiplier maps average correlation with active positions to a
// limit adjustment: concentrated books get squeezed, diversifying symbols
// get a small bonus.
func (c *PositionLimitCalculator) CorrelationMultiplier(avgCorrelation float64) float64 {
	switch {
	case avgCorrelation >= 0.80:
		return 0.70
	case avgCorrelation >= 0.60:
		return 0.85
	case avgCorrelation >= 0.40:
		return 1.00
	case avgCorrelation >= 0.20:
		return 1.05
	default:
		return 1.10
	}
}

// Limit combines the volatility and correlation adjustments into a dollar
// limit. A nil avgCorrelation means correlation was unavailable and the
// neutral multiplier (1.0) applies. The combined percentage is deliberately
// not re-clamped after the correlation multiplier, so a very low correlation
// can push it past the nominal base ceiling. The final limit never exceeds
// available cash, and may be negative when the position is over budget.
func (c *PositionLimitCalculator) Limit(annualizedVolatility float64, avgCorrelation *float64, portfolioValue, currentPositionValue, availableCash float64) LimitBreakdown {
	basePct := c.VolatilityAdjustedPct(annualizedVolatility)

	corrMultiplier := 1.0
	if avgCorrelation != nil {
		corrMultiplier = c.CorrelationMultiplier(*avgCorrelation)
	}

	combinedPct := basePct * corrMultiplier
	positionLimit := portfolioValue * combinedPct
	remainingLimit := positionLimit - currentPositionValue

	finalLimit := remainingLimit
	if availableCash < finalLimit {
		finalLimit = availableCash
	}

	return LimitBreakdown{
		BasePct:               basePct,
		CorrelationMultiplier: corrMultiplier,
		CombinedPct:           combinedPct,
		PositionLimit:         positionLimit,
		RemainingLimit:        remainingLimit,
		FinalLimit:            finalLimit,
	}
}

// Describe renders the human-readable adjustment note carried in reasoning
func (b LimitBreakdown) Describe() string {
	return fmt.Sprintf("Volatility x Correlation adjusted: %.1f%% (base %.1f%%)", b.CombinedPct*100, b.BasePct*100)
}

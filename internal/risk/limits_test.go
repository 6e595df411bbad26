package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolatilityAdjustedPct_LowVolatility(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	// Below 25% annualized the full 15% base applies
	assert.InDelta(t, 0.15, c.VolatilityAdjustedPct(0.20), 1e-12)
	assert.InDelta(t, 0.15, c.VolatilityAdjustedPct(0.0), 1e-12)
}

func TestVolatilityAdjustedPct_FirstTaperBoundary(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	// Exactly 25%: the taper starts at 0.85x
	assert.InDelta(t, 0.15*0.85, c.VolatilityAdjustedPct(0.25), 1e-12)
}

func TestVolatilityAdjustedPct_FirstTaperMidpoint(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	// 37.5%: 0.85 - 0.125*0.4 = 0.80
	assert.InDelta(t, 0.15*0.80, c.VolatilityAdjustedPct(0.375), 1e-12)
}

func TestVolatilityAdjustedPct_SecondTaper(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	// 50%: 0.65x. 60%: 0.65 - 0.10*0.6 = 0.59
	assert.InDelta(t, 0.15*0.65, c.VolatilityAdjustedPct(0.50), 1e-12)
	assert.InDelta(t, 0.15*0.59, c.VolatilityAdjustedPct(0.60), 1e-12)
}

func TestVolatilityAdjustedPct_HighVolatilityPlateau(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	assert.InDelta(t, 0.15*0.30, c.VolatilityAdjustedPct(0.75), 1e-12)
	assert.InDelta(t, 0.15*0.30, c.VolatilityAdjustedPct(0.99), 1e-12)
}

func TestVolatilityAdjustedPct_ExtremeVolatilityFloor(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	assert.InDelta(t, 0.15*0.13, c.VolatilityAdjustedPct(1.00), 1e-12)
	assert.InDelta(t, 0.15*0.13, c.VolatilityAdjustedPct(5.00), 1e-12)
}

func TestCorrelationMultiplier_Tiers(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	assert.Equal(t, 0.70, c.CorrelationMultiplier(0.90))
	assert.Equal(t, 0.70, c.CorrelationMultiplier(0.80))
	assert.Equal(t, 0.85, c.CorrelationMultiplier(0.65))
	assert.Equal(t, 0.85, c.CorrelationMultiplier(0.60))
	assert.Equal(t, 1.00, c.CorrelationMultiplier(0.50))
	assert.Equal(t, 1.00, c.CorrelationMultiplier(0.40))
	assert.Equal(t, 1.05, c.CorrelationMultiplier(0.30))
	assert.Equal(t, 1.05, c.CorrelationMultiplier(0.20))
	assert.Equal(t, 1.10, c.CorrelationMultiplier(0.10))
	assert.Equal(t, 1.10, c.CorrelationMultiplier(-0.50))
}

func TestLimit_ModerateVolatilityNeutralCorrelation(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	avgCorr := 0.50
	b := c.Limit(0.20, &avgCorr, 100000, 0, 200000)

	assert.InDelta(t, 0.15, b.BasePct, 1e-12)
	assert.Equal(t, 1.00, b.CorrelationMultiplier)
	assert.InDelta(t, 0.15, b.CombinedPct, 1e-12)
	assert.InDelta(t, 15000, b.PositionLimit, 1e-9)
	assert.InDelta(t, 15000, b.RemainingLimit, 1e-9)
	assert.InDelta(t, 15000, b.FinalLimit, 1e-9)
}

func TestLimit_HighVolatilityHighCorrelation(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	avgCorr := 0.65
	b := c.Limit(0.60, &avgCorr, 100000, 0, 200000)

	assert.InDelta(t, 0.0885, b.BasePct, 1e-12)
	assert.Equal(t, 0.85, b.CorrelationMultiplier)
	assert.InDelta(t, 0.075225, b.CombinedPct, 1e-12)
	assert.InDelta(t, 7522.5, b.PositionLimit, 1e-9)
}

func TestLimit_LowCorrelationCanExceedBaseCeiling(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	// The combined percentage is not re-clamped after the correlation bonus
	avgCorr := 0.10
	b := c.Limit(0.20, &avgCorr, 100000, 0, 200000)

	assert.InDelta(t, 0.165, b.CombinedPct, 1e-12)
	assert.Greater(t, b.CombinedPct, DefaultConfig().MaxPositionSize)
	assert.InDelta(t, 16500, b.PositionLimit, 1e-9)
}

func TestLimit_CashCapsFinalLimit(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	avgCorr := 0.50
	b := c.Limit(0.20, &avgCorr, 100000, 0, 1000)

	assert.InDelta(t, 15000, b.RemainingLimit, 1e-9)
	assert.InDelta(t, 1000, b.FinalLimit, 1e-9)
}

func TestLimit_NegativeWhenOverBudget(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	avgCorr := 0.50
	b := c.Limit(0.20, &avgCorr, 100000, 20000, 200000)

	assert.InDelta(t, -5000, b.RemainingLimit, 1e-9)
	assert.InDelta(t, -5000, b.FinalLimit, 1e-9)
}

func TestLimit_NilCorrelationIsNeutral(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	b := c.Limit(0.20, nil, 100000, 0, 200000)

	assert.Equal(t, 1.0, b.CorrelationMultiplier)
	assert.InDelta(t, 0.15, b.CombinedPct, 1e-12)
}

func TestLimit_ZeroPortfolioValue(t *testing.T) {
	c := NewPositionLimitCalculator(DefaultConfig())

	b := c.Limit(0.20, nil, 0, 0, 0)

	assert.Equal(t, 0.0, b.PositionLimit)
	assert.Equal(t, 0.0, b.FinalLimit)
}

func TestLimitBreakdown_Describe(t *testing.T) {
	b := LimitBreakdown{BasePct: 0.15, CombinedPct: 0.165}

	assert.Equal(t, "Volatility x Correlation adjusted: 16.5% (base 15.0%)", b.Describe())
}

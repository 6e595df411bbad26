package risk

// VolatilityMetrics describes one symbol's return distribution. Immutable
// once computed; fields are always populated (fallbacks, never nulls).
type VolatilityMetrics struct {
	DailyVolatility      float64 `json:"daily_volatility"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	VolatilityPercentile float64 `json:"volatility_percentile"`
	DataPoints           int     `json:"data_points"`
}

// SymbolCorrelation pairs a symbol with its correlation to the assessed one
type SymbolCorrelation struct {
	Symbol      string  `json:"symbol"`
	Correlation float64 `json:"correlation"`
}

// CorrelationMetrics aggregates one symbol's correlation against the
// actively-held symbols. Nil pointers mean the correlation was unavailable
// and the limit used the neutral multiplier.
type CorrelationMetrics struct {
	AvgCorrelationWithActive *float64            `json:"avg_correlation_with_active"`
	MaxCorrelationWithActive *float64            `json:"max_correlation_with_active"`
	TopCorrelatedSymbols     []SymbolCorrelation `json:"top_correlated_symbols"`
}

// Reasoning carries every intermediate value of the limit computation so a
// downstream decision process can audit the result without recomputing it.
type Reasoning struct {
	PortfolioValue           float64 `json:"portfolio_value"`
	CurrentPositionValue     float64 `json:"current_position_value"`
	BasePositionLimitPct     float64 `json:"base_position_limit_pct"`
	CorrelationMultiplier    float64 `json:"correlation_multiplier"`
	CombinedPositionLimitPct float64 `json:"combined_position_limit_pct"`
	PositionLimit            float64 `json:"position_limit"`
	RemainingLimit           float64 `json:"remaining_limit"`
	AvailableCash            float64 `json:"available_cash"`
	RiskAdjustment           string  `json:"risk_adjustment,omitempty"`
	Error                    string  `json:"error,omitempty"`
}

// Assessment is the per-symbol output record. RemainingPositionLimit is in
// dollars and may be negative when the position already exceeds its budget.
type Assessment struct {
	RemainingPositionLimit float64            `json:"remaining_position_limit"`
	CurrentPrice           float64            `json:"current_price"`
	VolatilityMetrics      VolatilityMetrics  `json:"volatility_metrics"`
	CorrelationMetrics     CorrelationMetrics `json:"correlation_metrics"`
	Reasoning              Reasoning          `json:"reasoning"`
}

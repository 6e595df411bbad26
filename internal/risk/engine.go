package risk

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ducminhle1904/crypto-risk-engine/internal/monitoring"
	"github.com/ducminhle1904/crypto-risk-engine/pkg/data"
	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
)

// AssessRequest is the input to one batch assessment
type AssessRequest struct {
	Symbols   []string
	Portfolio types.Portfolio
	Start     time.Time
	End       time.Time
}

// Engine orchestrates the per-symbol risk assessment batch. It holds no
// state between invocations: the output is a pure function of the request
// and whatever the price provider returns.
type Engine struct {
	cfg         Config
	provider    data.PriceProvider
	volatility  *VolatilityEstimator
	correlation *CorrelationAnalyzer
	limits      *PositionLimitCalculator
}

// NewEngine creates a risk engine bound to a price provider and an immutable
// risk profile.
func NewEngine(cfg Config, provider data.PriceProvider) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewInvalidInputError("new engine", err.Error())
	}
	if provider == nil {
		return nil, NewInvalidInputError("new engine", "price provider is required")
	}
	return &Engine{
		cfg:         cfg,
		provider:    provider,
		volatility:  NewVolatilityEstimator(cfg),
		correlation: NewCorrelationAnalyzer(cfg),
		limits:      NewPositionLimitCalculator(cfg),
	}, nil
}

// symbolData is everything the barrier stage needs for one symbol
type symbolData struct {
	symbol       string
	metrics      VolatilityMetrics
	returns      []ReturnPoint
	currentPrice float64
	priceKnown   bool
	fetchErr     error
}

// Assess computes a RiskAssessment per requested symbol. The only fatal
// condition is an invalid portfolio; every per-symbol data problem degrades
// to that symbol's fallback record and the batch keeps going.
func (e *Engine) Assess(ctx context.Context, req AssessRequest) (map[string]Assessment, error) {
	started := time.Now()

	if err := validatePortfolio(req.Portfolio); err != nil {
		return nil, err
	}

	allSymbols := fetchSet(req.Symbols, req.Portfolio)
	marketData := e.collectMarketData(ctx, allSymbols, req.Start, req.End)

	// Correlation barrier: every symbol's returns are in (or have fallen
	// back) before the joint matrix is built.
	returnsBySymbol := make(map[string][]ReturnPoint, len(marketData))
	for symbol, d := range marketData {
		if len(d.returns) > 0 {
			returnsBySymbol[symbol] = d.returns
		}
	}
	matrix := e.correlation.Correlate(returnsBySymbol)

	activeSymbols := req.Portfolio.ActiveSymbols()
	sort.Strings(activeSymbols)

	portfolioValue := netLiquidationValue(req.Portfolio, marketData)

	assessments := make(map[string]Assessment, len(req.Symbols))
	for _, symbol := range req.Symbols {
		d := marketData[symbol]
		if !d.priceKnown {
			assessments[symbol] = e.unavailableAssessment(d, req.Portfolio, portfolioValue)
			monitoring.RecordAssessment(string(ErrorCategoryDataUnavailable))
			continue
		}
		assessments[symbol] = e.assessSymbol(d, matrix, activeSymbols, req.Portfolio, portfolioValue)
		monitoring.RecordAssessment("ok")
	}

	monitoring.ObserveBatchDuration(time.Since(started).Seconds(), len(req.Symbols))
	return assessments, nil
}

// assessSymbol builds the full assessment for one symbol with a known price
func (e *Engine) assessSymbol(d symbolData, matrix *CorrelationMatrix, activeSymbols []string, portfolio types.Portfolio, portfolioValue float64) Assessment {
	pos := portfolio.Position(d.symbol)
	longValue := pos.Long * d.currentPrice
	shortValue := pos.Short * d.currentPrice
	currentPositionValue := math.Abs(longValue - shortValue)

	corrMetrics := e.correlation.AggregateFor(d.symbol, matrix, activeSymbols)

	breakdown := e.limits.Limit(
		d.metrics.AnnualizedVolatility,
		corrMetrics.AvgCorrelationWithActive,
		portfolioValue,
		currentPositionValue,
		portfolio.Cash,
	)

	return Assessment{
		RemainingPositionLimit: breakdown.FinalLimit,
		CurrentPrice:           d.currentPrice,
		VolatilityMetrics:      d.metrics,
		CorrelationMetrics:     corrMetrics,
		Reasoning: Reasoning{
			PortfolioValue:           portfolioValue,
			CurrentPositionValue:     currentPositionValue,
			BasePositionLimitPct:     breakdown.BasePct,
			CorrelationMultiplier:    breakdown.CorrelationMultiplier,
			CombinedPositionLimitPct: breakdown.CombinedPct,
			PositionLimit:            breakdown.PositionLimit,
			RemainingLimit:           breakdown.RemainingLimit,
			AvailableCash:            portfolio.Cash,
			RiskAdjustment:           breakdown.Describe(),
		},
	}
}

// unavailableAssessment is the zero-limit record for a symbol whose price
// data is missing. Volatility fields still carry the fallback metrics so no
// consumer ever sees an absent record.
func (e *Engine) unavailableAssessment(d symbolData, portfolio types.Portfolio, portfolioValue float64) Assessment {
	note := "missing price data for risk calculation"
	if d.fetchErr != nil {
		note = fmt.Sprintf("%s: %v", note, d.fetchErr)
	}

	return Assessment{
		RemainingPositionLimit: 0,
		CurrentPrice:           0,
		VolatilityMetrics:      d.metrics,
		CorrelationMetrics:     CorrelationMetrics{TopCorrelatedSymbols: []SymbolCorrelation{}},
		Reasoning: Reasoning{
			PortfolioValue: portfolioValue,
			AvailableCash:  portfolio.Cash,
			Error:          note,
		},
	}
}

// collectMarketData fetches prices and computes volatility for every symbol
// through a bounded worker pool. Fetching is I/O bound while the math is
// cheap, so the two are fused into one job per symbol.
func (e *Engine) collectMarketData(ctx context.Context, symbols []string, start, end time.Time) map[string]symbolData {
	workerCount := e.cfg.FetchWorkers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount > len(symbols) {
		workerCount = len(symbols)
	}

	jobs := make(chan string)
	results := make(chan symbolData)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				results <- e.loadSymbol(ctx, symbol, start, end)
			}
		}()
	}

	go func() {
		for _, symbol := range symbols {
			jobs <- symbol
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	marketData := make(map[string]symbolData, len(symbols))
	for d := range results {
		marketData[d.symbol] = d
	}
	return marketData
}

// loadSymbol fetches one symbol's series and derives its statistics. Any
// fetch failure, including a caller timeout, is treated as missing data
// rather than a hard failure.
func (e *Engine) loadSymbol(ctx context.Context, symbol string, start, end time.Time) symbolData {
	fetchStarted := time.Now()
	prices, err := e.provider.FetchPrices(ctx, symbol, start, end)
	monitoring.ObserveFetchDuration(e.provider.GetName(), time.Since(fetchStarted).Seconds())

	d := symbolData{symbol: symbol}
	if err != nil {
		d.fetchErr = NewDataUnavailableError(symbol, err)
		d.metrics = e.volatility.fallback(0)
		monitoring.RecordFallback("fetch_error")
		return d
	}

	d.metrics = e.volatility.Estimate(prices)

	if len(prices) < 2 {
		monitoring.RecordFallback("no_data")
		return d
	}

	lastClose := prices[len(prices)-1].Close
	if lastClose > 0 {
		d.currentPrice = lastClose
		d.priceKnown = true
	}
	d.returns = DailyReturns(prices)
	return d
}

// validatePortfolio rejects malformed snapshots before any computation. A
// bad portfolio is the caller's bug, distinct from data unavailability which
// degrades gracefully.
func validatePortfolio(p types.Portfolio) error {
	if p.Cash < 0 || math.IsNaN(p.Cash) {
		return NewInvalidInputError("validate portfolio", fmt.Sprintf("cash must be non-negative, got %v", p.Cash))
	}
	for symbol, pos := range p.Positions {
		if pos.Long < 0 || math.IsNaN(pos.Long) {
			return NewInvalidInputError("validate portfolio", fmt.Sprintf("long quantity for %s must be non-negative, got %v", symbol, pos.Long))
		}
		if pos.Short < 0 || math.IsNaN(pos.Short) {
			return NewInvalidInputError("validate portfolio", fmt.Sprintf("short quantity for %s must be non-negative, got %v", symbol, pos.Short))
		}
	}
	return nil
}

// fetchSet is the union of requested and held symbols, sorted and deduped.
// Held-but-unrequested symbols still need prices for the net liquidation
// value and the correlation matrix.
func fetchSet(requested []string, portfolio types.Portfolio) []string {
	seen := make(map[string]bool, len(requested)+len(portfolio.Positions))
	symbols := make([]string, 0, len(requested)+len(portfolio.Positions))
	for _, s := range requested {
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	for s := range portfolio.Positions {
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// netLiquidationValue is cash plus the mark-to-market value of every
// position with a known price. Unpriced positions are left out of the sum,
// not assumed to be zero-risk.
func netLiquidationValue(portfolio types.Portfolio, marketData map[string]symbolData) float64 {
	total := portfolio.Cash
	for symbol, pos := range portfolio.Positions {
		d, ok := marketData[symbol]
		if !ok || !d.priceKnown {
			continue
		}
		total += pos.Long * d.currentPrice
		total -= pos.Short * d.currentPrice
	}
	return total
}

package risk

import (
	"math"
	"sort"
)

// CorrelationMatrix is a square, symmetric Pearson correlation matrix over
// the timestamp-aligned returns of a set of symbols. The diagonal is 1 and
// every defined entry lies in [-1, 1]; entries for zero-variance columns are
// undefined and skipped during aggregation.
type CorrelationMatrix struct {
	symbols     []string
	index       map[string]int
	values      [][]float64
	alignedRows int
}

// Symbols returns the symbols included in the matrix, sorted
func (m *CorrelationMatrix) Symbols() []string {
	out := make([]string, len(m.symbols))
	copy(out, m.symbols)
	return out
}

// Has reports whether the matrix has a column for the symbol
func (m *CorrelationMatrix) Has(symbol string) bool {
	_, ok := m.index[symbol]
	return ok
}

// Correlation returns the pairwise correlation between two symbols. The
// second result is false when either symbol is missing or the entry is
// undefined.
func (m *CorrelationMatrix) Correlation(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	v := m.values[i][j]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// AlignedRows returns how many timestamp-aligned return rows fed the matrix
func (m *CorrelationMatrix) AlignedRows() int {
	return m.alignedRows
}

// CorrelationAnalyzer aligns return series across symbols and computes
// pairwise and aggregate correlations.
type CorrelationAnalyzer struct {
	cfg Config
}

// NewCorrelationAnalyzer creates a correlation analyzer with the given risk profile
func NewCorrelationAnalyzer(cfg Config) *CorrelationAnalyzer {
	return &CorrelationAnalyzer{cfg: cfg}
}

// Correlate builds the correlation matrix from per-symbol return series.
// Returns nil when fewer than the minimum symbols have return data or fewer
// than the minimum rows survive the timestamp inner join. Absence is not an
// error: callers fall back to the neutral multiplier.
func (a *CorrelationAnalyzer) Correlate(returnsBySymbol map[string][]ReturnPoint) *CorrelationMatrix {
	symbols := make([]string, 0, len(returnsBySymbol))
	for symbol, returns := range returnsBySymbol {
		if len(returns) > 0 {
			symbols = append(symbols, symbol)
		}
	}
	if len(symbols) < a.cfg.MinCorrelationSymbols {
		return nil
	}
	sort.Strings(symbols)

	// Inner join on timestamps: keep only rows where every column has a value
	bySymbol := make([]map[int64]float64, len(symbols))
	for i, symbol := range symbols {
		points := returnsBySymbol[symbol]
		m := make(map[int64]float64, len(points))
		for _, p := range points {
			m[p.Timestamp.UnixNano()] = p.Value
		}
		bySymbol[i] = m
	}

	var aligned []int64
	for ts := range bySymbol[0] {
		present := true
		for _, m := range bySymbol[1:] {
			if _, ok := m[ts]; !ok {
				present = false
				break
			}
		}
		if present {
			aligned = append(aligned, ts)
		}
	}
	if len(aligned) < a.cfg.MinAlignedRows {
		return nil
	}
	sort.Slice(aligned, func(i, j int) bool { return aligned[i] < aligned[j] })

	columns := make([][]float64, len(symbols))
	for i, m := range bySymbol {
		col := make([]float64, len(aligned))
		for r, ts := range aligned {
			col[r] = m[ts]
		}
		columns[i] = col
	}

	index := make(map[string]int, len(symbols))
	for i, symbol := range symbols {
		index[symbol] = i
	}

	values := make([][]float64, len(symbols))
	for i := range values {
		values[i] = make([]float64, len(symbols))
		values[i][i] = 1
	}
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			r := pearson(columns[i], columns[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &CorrelationMatrix{
		symbols:     symbols,
		index:       index,
		values:      values,
		alignedRows: len(aligned),
	}
}

// AggregateFor summarizes one symbol's correlation against the actively-held
// symbols. When no active symbol is comparable it falls back to all other
// columns; when nothing is comparable at all, the metrics stay null and the
// caller treats the symbol as neutral.
func (a *CorrelationAnalyzer) AggregateFor(symbol string, matrix *CorrelationMatrix, activeSymbols []string) CorrelationMetrics {
	metrics := CorrelationMetrics{TopCorrelatedSymbols: []SymbolCorrelation{}}
	if matrix == nil || !matrix.Has(symbol) {
		return metrics
	}

	comparable := make([]string, 0, len(activeSymbols))
	for _, active := range activeSymbols {
		if active != symbol && matrix.Has(active) {
			comparable = append(comparable, active)
		}
	}
	if len(comparable) == 0 {
		for _, other := range matrix.Symbols() {
			if other != symbol {
				comparable = append(comparable, other)
			}
		}
	}

	pairs := make([]SymbolCorrelation, 0, len(comparable))
	for _, other := range comparable {
		if r, ok := matrix.Correlation(symbol, other); ok {
			pairs = append(pairs, SymbolCorrelation{Symbol: other, Correlation: r})
		}
	}
	if len(pairs) == 0 {
		return metrics
	}

	sum := 0.0
	maxCorr := pairs[0].Correlation
	for _, p := range pairs {
		sum += p.Correlation
		if p.Correlation > maxCorr {
			maxCorr = p.Correlation
		}
	}
	avgCorr := sum / float64(len(pairs))

	// Highest correlation first; ties broken by symbol so output is deterministic
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Correlation != pairs[j].Correlation {
			return pairs[i].Correlation > pairs[j].Correlation
		}
		return pairs[i].Symbol < pairs[j].Symbol
	})
	top := pairs
	if len(top) > 3 {
		top = top[:3]
	}

	metrics.AvgCorrelationWithActive = &avgCorr
	metrics.MaxCorrelationWithActive = &maxCorr
	metrics.TopCorrelatedSymbols = top
	return metrics
}

// pearson computes the Pearson correlation of two equal-length columns.
// Zero variance in either column makes the coefficient undefined (NaN).
// Defined results are clamped to [-1, 1] against float rounding.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n < 2 {
		return math.NaN()
	}

	meanX := mean(x)
	meanY := mean(y)

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}

	r := cov / math.Sqrt(varX*varY)
	return math.Max(-1, math.Min(1, r))
}

package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeReturns builds a daily-aligned return series from values
func makeReturns(values []float64) []ReturnPoint {
	points := make([]ReturnPoint, len(values))
	for i, v := range values {
		points[i] = ReturnPoint{
			Timestamp: testBaseTime.AddDate(0, 0, i),
			Value:     v,
		}
	}
	return points
}

func TestCorrelationAnalyzer_NilWithSingleSymbol(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	matrix := a.Correlate(map[string][]ReturnPoint{
		"BTCUSDT": makeReturns([]float64{0.01, 0.02, -0.01, 0.03, -0.02}),
	})

	assert.Nil(t, matrix)
}

func TestCorrelationAnalyzer_NilWithTooFewAlignedRows(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	// Only 4 shared timestamps, below the 5-row minimum
	matrix := a.Correlate(map[string][]ReturnPoint{
		"BTCUSDT": makeReturns([]float64{0.01, 0.02, -0.01, 0.03}),
		"ETHUSDT": makeReturns([]float64{0.02, 0.01, -0.02, 0.01}),
	})

	assert.Nil(t, matrix)
}

func TestCorrelationAnalyzer_NilWithDisjointTimestamps(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	btc := makeReturns([]float64{0.01, 0.02, -0.01, 0.03, -0.02})
	eth := make([]ReturnPoint, len(btc))
	for i, p := range btc {
		eth[i] = ReturnPoint{Timestamp: p.Timestamp.AddDate(1, 0, 0), Value: p.Value}
	}

	matrix := a.Correlate(map[string][]ReturnPoint{
		"BTCUSDT": btc,
		"ETHUSDT": eth,
	})

	assert.Nil(t, matrix)
}

func TestCorrelationAnalyzer_PerfectPositiveCorrelation(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	values := []float64{0.01, 0.02, -0.01, 0.03, -0.02}
	matrix := a.Correlate(map[string][]ReturnPoint{
		"BTCUSDT": makeReturns(values),
		"ETHUSDT": makeReturns(values),
	})
	require.NotNil(t, matrix)

	r, ok := matrix.Correlation("BTCUSDT", "ETHUSDT")
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)
	assert.Equal(t, 5, matrix.AlignedRows())
}

func TestCorrelationAnalyzer_PerfectNegativeCorrelation(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	values := []float64{0.01, 0.02, -0.01, 0.03, -0.02}
	inverted := make([]float64, len(values))
	for i, v := range values {
		inverted[i] = -v
	}

	matrix := a.Correlate(map[string][]ReturnPoint{
		"BTCUSDT": makeReturns(values),
		"ETHUSDT": makeReturns(inverted),
	})
	require.NotNil(t, matrix)

	r, ok := matrix.Correlation("BTCUSDT", "ETHUSDT")
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-12)
}

func TestCorrelationAnalyzer_DiagonalIsOne(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	matrix := a.Correlate(map[string][]ReturnPoint{
		"BTCUSDT": makeReturns([]float64{0.01, 0.02, -0.01, 0.03, -0.02}),
		"ETHUSDT": makeReturns([]float64{0.02, -0.01, 0.01, -0.02, 0.03}),
	})
	require.NotNil(t, matrix)

	r, ok := matrix.Correlation("BTCUSDT", "BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 1.0, r)
}

func TestCorrelationAnalyzer_ZeroVarianceIsUndefined(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	matrix := a.Correlate(map[string][]ReturnPoint{
		"BTCUSDT": makeReturns([]float64{0.01, 0.02, -0.01, 0.03, -0.02}),
		"USDCUSDT": makeReturns([]float64{0, 0, 0, 0, 0}),
	})
	require.NotNil(t, matrix)

	_, ok := matrix.Correlation("BTCUSDT", "USDCUSDT")
	assert.False(t, ok)
}

func TestCorrelationAnalyzer_MissingSymbol(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	matrix := a.Correlate(map[string][]ReturnPoint{
		"BTCUSDT": makeReturns([]float64{0.01, 0.02, -0.01, 0.03, -0.02}),
		"ETHUSDT": makeReturns([]float64{0.02, -0.01, 0.01, -0.02, 0.03}),
	})
	require.NotNil(t, matrix)

	assert.False(t, matrix.Has("SOLUSDT"))
	_, ok := matrix.Correlation("BTCUSDT", "SOLUSDT")
	assert.False(t, ok)
}

// fourSymbolMatrix builds a matrix where, relative to AAAUSDT:
// BBBUSDT is perfectly correlated, CCCUSDT perfectly anti-correlated,
// and DDDUSDT correlates at exactly -0.3.
func fourSymbolMatrix(t *testing.T) *CorrelationMatrix {
	t.Helper()
	a := NewCorrelationAnalyzer(DefaultConfig())

	base := []float64{0.01, 0.02, 0.03, 0.04, 0.05}
	inverted := []float64{-0.01, -0.02, -0.03, -0.04, -0.05}
	shuffled := []float64{0.05, 0.01, 0.04, 0.02, 0.03}

	matrix := a.Correlate(map[string][]ReturnPoint{
		"AAAUSDT": makeReturns(base),
		"BBBUSDT": makeReturns(base),
		"CCCUSDT": makeReturns(inverted),
		"DDDUSDT": makeReturns(shuffled),
	})
	require.NotNil(t, matrix)
	return matrix
}

func TestAggregateFor_ActiveSubset(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())
	matrix := fourSymbolMatrix(t)

	metrics := a.AggregateFor("AAAUSDT", matrix, []string{"CCCUSDT"})

	require.NotNil(t, metrics.AvgCorrelationWithActive)
	assert.InDelta(t, -1.0, *metrics.AvgCorrelationWithActive, 1e-12)
	require.NotNil(t, metrics.MaxCorrelationWithActive)
	assert.InDelta(t, -1.0, *metrics.MaxCorrelationWithActive, 1e-12)
	require.Len(t, metrics.TopCorrelatedSymbols, 1)
	assert.Equal(t, "CCCUSDT", metrics.TopCorrelatedSymbols[0].Symbol)
}

func TestAggregateFor_ExcludesSelf(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())
	matrix := fourSymbolMatrix(t)

	metrics := a.AggregateFor("AAAUSDT", matrix, []string{"AAAUSDT", "BBBUSDT"})

	require.Len(t, metrics.TopCorrelatedSymbols, 1)
	assert.Equal(t, "BBBUSDT", metrics.TopCorrelatedSymbols[0].Symbol)
}

func TestAggregateFor_FallsBackToAllOthers(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())
	matrix := fourSymbolMatrix(t)

	// No active positions: every other column is comparable
	metrics := a.AggregateFor("AAAUSDT", matrix, nil)

	require.NotNil(t, metrics.AvgCorrelationWithActive)
	// (1.0 - 1.0 - 0.3) / 3
	assert.InDelta(t, -0.1, *metrics.AvgCorrelationWithActive, 1e-12)
	require.NotNil(t, metrics.MaxCorrelationWithActive)
	assert.InDelta(t, 1.0, *metrics.MaxCorrelationWithActive, 1e-12)
}

func TestAggregateFor_TopThreeOrderedByCorrelation(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())
	matrix := fourSymbolMatrix(t)

	metrics := a.AggregateFor("AAAUSDT", matrix, nil)

	require.Len(t, metrics.TopCorrelatedSymbols, 3)
	assert.Equal(t, "BBBUSDT", metrics.TopCorrelatedSymbols[0].Symbol)
	assert.Equal(t, "DDDUSDT", metrics.TopCorrelatedSymbols[1].Symbol)
	assert.Equal(t, "CCCUSDT", metrics.TopCorrelatedSymbols[2].Symbol)
	assert.InDelta(t, -0.3, metrics.TopCorrelatedSymbols[1].Correlation, 1e-12)
}

func TestAggregateFor_NilMatrix(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	metrics := a.AggregateFor("BTCUSDT", nil, []string{"ETHUSDT"})

	assert.Nil(t, metrics.AvgCorrelationWithActive)
	assert.Nil(t, metrics.MaxCorrelationWithActive)
	assert.NotNil(t, metrics.TopCorrelatedSymbols)
	assert.Empty(t, metrics.TopCorrelatedSymbols)
}

func TestAggregateFor_SymbolNotInMatrix(t *testing.T) {
	a := NewCorrelationAnalyzer(DefaultConfig())
	matrix := fourSymbolMatrix(t)

	metrics := a.AggregateFor("ZZZUSDT", matrix, []string{"AAAUSDT"})

	assert.Nil(t, metrics.AvgCorrelationWithActive)
	assert.Empty(t, metrics.TopCorrelatedSymbols)
}

func TestPearson_Clamped(t *testing.T) {
	x := []float64{0.01, 0.02, 0.03}
	r := pearson(x, x)

	assert.LessOrEqual(t, r, 1.0)
	assert.InDelta(t, 1.0, r, 1e-12)
}

// Benchmark tests
func BenchmarkCorrelationAnalyzer_Correlate(b *testing.B) {
	a := NewCorrelationAnalyzer(DefaultConfig())

	returnsBySymbol := make(map[string][]ReturnPoint, 10)
	for s := 0; s < 10; s++ {
		values := make([]float64, 365)
		for i := range values {
			values[i] = 0.001 * float64((i*7+s*13)%21-10)
		}
		returnsBySymbol[string(rune('A'+s))+"USDT"] = makeReturns(values)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Correlate(returnsBySymbol)
	}
}

package risk

import (
	"math"
	"time"

	"github.com/ducminhle1904/crypto-risk-engine/pkg/types"
)

// ReturnPoint is one close-to-close simple return. The timestamp is the
// candle that completes the pair, so series from different symbols can be
// aligned by timestamp.
type ReturnPoint struct {
	Timestamp time.Time
	Value     float64
}

// DailyReturns derives simple percentage changes from consecutive closes.
// Pairs whose previous close is not positive are excluded rather than
// producing an undefined return.
func DailyReturns(prices []types.OHLCV) []ReturnPoint {
	if len(prices) < 2 {
		return nil
	}

	returns := make([]ReturnPoint, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Close
		if prev <= 0 {
			continue
		}
		returns = append(returns, ReturnPoint{
			Timestamp: prices[i].Timestamp,
			Value:     (prices[i].Close - prev) / prev,
		})
	}
	return returns
}

// returnValues strips the timestamps off a return series
func returnValues(returns []ReturnPoint) []float64 {
	values := make([]float64, len(returns))
	for i, r := range returns {
		values[i] = r.Value
	}
	return values
}

// mean returns the arithmetic mean, or NaN for an empty slice
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns the sample (n-1) standard deviation, or NaN when
// fewer than two values are given. Sample, not population, to match the
// statistical semantics of the rest of the pipeline.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}

	avg := mean(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - avg
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(values)-1))
}

// rollingStdDev computes the sample standard deviation over every full
// window of the series, one value per window end. Shorter leading windows
// are dropped, mirroring a rolling std with undefined leading values.
func rollingStdDev(values []float64, window int) []float64 {
	if window < 2 || len(values) < window {
		return nil
	}

	out := make([]float64, 0, len(values)-window+1)
	for end := window; end <= len(values); end++ {
		out = append(out, sampleStdDev(values[end-window:end]))
	}
	return out
}

// replaceNaN substitutes a safe default for an undefined scalar. Each field
// is guarded individually so one degenerate value never poisons the rest of
// a metrics record.
func replaceNaN(value, fallback float64) float64 {
	if math.IsNaN(value) {
		return fallback
	}
	return value
}

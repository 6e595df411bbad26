package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// WriteReportCSV writes one assessment batch to a CSV file, one row per symbol
func (r *DefaultCSVReporter) WriteReportCSV(report *Report, path string) error {
	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	// If the user requests an Excel file, delegate to Excel writer
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WriteReportXLSX(report, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"Symbol",
		"Current_Price",
		"Daily_Volatility",
		"Annualized_Volatility",
		"Volatility_Percentile",
		"Data_Points",
		"Avg_Correlation",
		"Max_Correlation",
		"Base_Limit_%",
		"Correlation_Multiplier",
		"Combined_Limit_%",
		"Position_Limit_$",
		"Remaining_Limit_$",
		"Error",
	}); err != nil {
		return err
	}

	for _, symbol := range report.Symbols() {
		a := report.Assessments[symbol]

		avgCorr, maxCorr := "", ""
		if a.CorrelationMetrics.AvgCorrelationWithActive != nil {
			avgCorr = fmt.Sprintf("%.6f", *a.CorrelationMetrics.AvgCorrelationWithActive)
		}
		if a.CorrelationMetrics.MaxCorrelationWithActive != nil {
			maxCorr = fmt.Sprintf("%.6f", *a.CorrelationMetrics.MaxCorrelationWithActive)
		}

		row := []string{
			symbol,
			fmt.Sprintf("%.8f", a.CurrentPrice),
			fmt.Sprintf("%.6f", a.VolatilityMetrics.DailyVolatility),
			fmt.Sprintf("%.6f", a.VolatilityMetrics.AnnualizedVolatility),
			fmt.Sprintf("%.1f", a.VolatilityMetrics.VolatilityPercentile),
			strconv.Itoa(a.VolatilityMetrics.DataPoints),
			avgCorr,
			maxCorr,
			fmt.Sprintf("%.4f", a.Reasoning.BasePositionLimitPct),
			fmt.Sprintf("%.4f", a.Reasoning.CorrelationMultiplier),
			fmt.Sprintf("%.6f", a.Reasoning.CombinedPositionLimitPct),
			fmt.Sprintf("%.2f", a.Reasoning.PositionLimit),
			fmt.Sprintf("%.2f", a.RemainingPositionLimit),
			a.Reasoning.Error,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Package-level convenience function
func WriteReportCSV(report *Report, path string) error {
	reporter := NewDefaultCSVReporter()
	return reporter.WriteReportCSV(report, path)
}

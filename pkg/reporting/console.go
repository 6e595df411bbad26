package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// OutputReport prints one assessment batch as a table, one row per symbol
func (r *DefaultConsoleReporter) OutputReport(report *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("RISK ASSESSMENT")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{
		"Symbol", "Price", "Daily Vol", "Ann Vol", "Pctl", "Avg Corr", "Limit $", "Remaining $", "Flags",
	})

	for _, symbol := range report.Symbols() {
		a := report.Assessments[symbol]

		avgCorr := "n/a"
		if a.CorrelationMetrics.AvgCorrelationWithActive != nil {
			avgCorr = fmt.Sprintf("%.2f", *a.CorrelationMetrics.AvgCorrelationWithActive)
		}

		t.AppendRow(table.Row{
			symbol,
			fmt.Sprintf("$%.2f", a.CurrentPrice),
			fmt.Sprintf("%.2f%%", a.VolatilityMetrics.DailyVolatility*100),
			fmt.Sprintf("%.1f%%", a.VolatilityMetrics.AnnualizedVolatility*100),
			fmt.Sprintf("%.0f", a.VolatilityMetrics.VolatilityPercentile),
			avgCorr,
			fmt.Sprintf("%.2f", a.Reasoning.PositionLimit),
			fmt.Sprintf("%.2f", a.RemainingPositionLimit),
			r.rowFlags(report, a.Reasoning.Error != "", a.VolatilityMetrics.DailyVolatility, a.CorrelationMetrics.AvgCorrelationWithActive),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 10, Align: text.AlignLeft},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	t.Render()
	fmt.Println()
}

// rowFlags builds the per-row warning markers
func (r *DefaultConsoleReporter) rowFlags(report *Report, failed bool, dailyVol float64, avgCorr *float64) string {
	if failed {
		return "❌ no data"
	}

	flags := ""
	if dailyVol >= report.ExtremeDailyVolatility {
		flags += "⚠️ vol "
	}
	if avgCorr != nil && *avgCorr >= report.CorrelationWarningThreshold {
		flags += "⚠️ corr"
	}
	if flags == "" {
		flags = "✅"
	}
	return flags
}

// PrintSummary prints batch-level context above the table
func (r *DefaultConsoleReporter) PrintSummary(report *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BATCH CONTEXT")
	t.SetStyle(table.StyleRounded)

	failed := 0
	for _, a := range report.Assessments {
		if a.Reasoning.Error != "" {
			failed++
		}
	}

	t.AppendRows([]table.Row{
		{"📊 Symbols", len(report.Assessments)},
		{"❌ Degraded", failed},
		{"💼 Portfolio NLV", fmt.Sprintf("$%.2f", report.PortfolioValue())},
		{"🏪 Provider", report.Provider},
		{"📅 Window", fmt.Sprintf("%s → %s", report.Start, report.End)},
		{"⏰ Generated", report.GeneratedAt},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 15, WidthMax: 15, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 45, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle   int
	CurrencyStyle int
	PercentStyle  int
	BaseStyle     int
	WarningStyle  int
}

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteReportXLSX writes one assessment batch to an Excel workbook
func (r *DefaultExcelReporter) WriteReportXLSX(report *Report, path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const assessmentsSheet = "Assessments"
	fx.SetSheetName(fx.GetSheetName(0), assessmentsSheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeAssessmentsSheet(fx, assessmentsSheet, report, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

// createExcelStyles creates the workbook styles
func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	// Header style - dark background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	// Currency style (right aligned, $ format)
	styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	// Percentage style (right aligned, % format)
	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	// Base style for plain cells
	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "left",
		},
	})
	if err != nil {
		return styles, err
	}

	// Warning style for degraded rows
	styles.WarningStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: "CC0000",
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
		},
	})
	return styles, err
}

// writeAssessmentsSheet writes the per-symbol rows
func (r *DefaultExcelReporter) writeAssessmentsSheet(fx *excelize.File, sheet string, report *Report, styles ExcelStyles) error {
	headers := []string{
		"Symbol", "Current Price", "Daily Vol", "Annualized Vol", "Vol Percentile",
		"Data Points", "Avg Correlation", "Max Correlation",
		"Base Limit %", "Corr Multiplier", "Combined Limit %",
		"Position Limit $", "Remaining Limit $", "Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	row := 2
	for _, symbol := range report.Symbols() {
		a := report.Assessments[symbol]

		values := []interface{}{
			symbol,
			a.CurrentPrice,
			a.VolatilityMetrics.DailyVolatility,
			a.VolatilityMetrics.AnnualizedVolatility,
			a.VolatilityMetrics.VolatilityPercentile,
			a.VolatilityMetrics.DataPoints,
			derefOrEmpty(a.CorrelationMetrics.AvgCorrelationWithActive),
			derefOrEmpty(a.CorrelationMetrics.MaxCorrelationWithActive),
			a.Reasoning.BasePositionLimitPct,
			a.Reasoning.CorrelationMultiplier,
			a.Reasoning.CombinedPositionLimitPct,
			a.Reasoning.PositionLimit,
			a.RemainingPositionLimit,
			a.Reasoning.Error,
		}

		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			fx.SetCellValue(sheet, cell, v)
		}

		// Style numeric columns
		for _, col := range []int{3, 4, 9, 11} {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			fx.SetCellStyle(sheet, cell, cell, styles.PercentStyle)
		}
		for _, col := range []int{2, 12, 13} {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			fx.SetCellStyle(sheet, cell, cell, styles.CurrencyStyle)
		}
		if a.Reasoning.Error != "" {
			cell, _ := excelize.CoordinatesToCellName(14, row)
			fx.SetCellStyle(sheet, cell, cell, styles.WarningStyle)
		}

		row++
	}

	// Reasonable default column widths
	fx.SetColWidth(sheet, "A", "A", 12)
	fx.SetColWidth(sheet, "B", "M", 15)
	fx.SetColWidth(sheet, "N", "N", 40)

	return nil
}

// derefOrEmpty renders an optional float for a cell
func derefOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// Package-level convenience function
func WriteReportXLSX(report *Report, path string) error {
	reporter := NewDefaultExcelReporter()
	return reporter.WriteReportXLSX(report, path)
}

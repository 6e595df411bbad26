package reporting

import (
	"sort"

	"github.com/ducminhle1904/crypto-risk-engine/internal/risk"
)

// Package reporting provides output generation for risk assessment batches

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputReport(report *Report)
	PrintSummary(report *Report)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteReportCSV(report *Report, path string) error
	WriteReportXLSX(report *Report, path string) error
	WriteReportJSON(report *Report, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(label string) string
	EnsureDirectoryExists(path string) error
}

// Report is one assessment batch plus the context it was produced under.
type Report struct {
	GeneratedAt string                     `json:"generated_at"`
	Provider    string                     `json:"provider"`
	Start       string                     `json:"start"`
	End         string                     `json:"end"`
	Assessments map[string]risk.Assessment `json:"assessments"`

	// Thresholds used when flagging rows in human-readable output
	ExtremeDailyVolatility      float64 `json:"-"`
	CorrelationWarningThreshold float64 `json:"-"`
}

// Symbols returns the assessed symbols in deterministic order
func (r *Report) Symbols() []string {
	symbols := make([]string, 0, len(r.Assessments))
	for symbol := range r.Assessments {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// PortfolioValue returns the batch's net liquidation value. Every
// assessment carries the same figure in its reasoning, so the first
// one is authoritative.
func (r *Report) PortfolioValue() float64 {
	for _, symbol := range r.Symbols() {
		return r.Assessments[symbol].Reasoning.PortfolioValue
	}
	return 0
}

// ReportingConfig holds configuration for reporting. An empty file name
// disables that format; bare file names are placed under OutputDirectory.
type ReportingConfig struct {
	EnableConsole   bool
	OutputDirectory string // empty: dated results directory
	JSONFile        string
	CSVFile         string
	XLSXFile        string
}

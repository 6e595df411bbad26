package reporting

import (
	"fmt"
	"path/filepath"
)

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	console *DefaultConsoleReporter
	paths   *DefaultPathManager
	config  ReportingConfig
}

// NewReportingManager creates a new reporting manager with configuration
func NewReportingManager(config ReportingConfig) *ReportingManager {
	return &ReportingManager{
		console: NewDefaultConsoleReporter(),
		paths:   NewDefaultPathManager(),
		config:  config,
	}
}

// OutputDir returns the configured output directory, falling back to the
// dated results directory
func (m *ReportingManager) OutputDir() string {
	if m.config.OutputDirectory != "" {
		return m.config.OutputDirectory
	}
	return m.paths.GetDefaultOutputDir("risk_report")
}

// ResolvePath places bare file names under the output directory and
// leaves explicit paths untouched
func (m *ReportingManager) ResolvePath(path string) string {
	if filepath.Dir(path) != "." {
		return path
	}
	return filepath.Join(m.OutputDir(), path)
}

// ReportBatch outputs one report according to configuration
func (m *ReportingManager) ReportBatch(report *Report) error {
	// Console output
	if m.config.EnableConsole {
		m.console.PrintSummary(report)
		m.console.OutputReport(report)
	}

	// File outputs
	if m.config.JSONFile != "" {
		path := m.ResolvePath(m.config.JSONFile)
		if err := m.paths.EnsureDirectoryExists(path); err != nil {
			return err
		}
		if err := WriteReportJSON(report, path); err != nil {
			return err
		}
		fmt.Printf("✅ JSON report written to %s\n", path)
	}

	if m.config.CSVFile != "" {
		path := m.ResolvePath(m.config.CSVFile)
		if err := m.paths.EnsureDirectoryExists(path); err != nil {
			return err
		}
		if err := WriteReportCSV(report, path); err != nil {
			return err
		}
		fmt.Printf("✅ CSV report written to %s\n", path)
	}

	if m.config.XLSXFile != "" {
		path := m.ResolvePath(m.config.XLSXFile)
		if err := m.paths.EnsureDirectoryExists(path); err != nil {
			return err
		}
		if err := WriteReportXLSX(report, path); err != nil {
			return err
		}
		fmt.Printf("✅ Excel report written to %s\n", path)
	}

	return nil
}

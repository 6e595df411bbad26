package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// FormatReport formats one assessment batch as indented JSON bytes
func (f *DefaultJSONFormatter) FormatReport(report *Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// PrintReport prints one assessment batch as JSON to console
func (f *DefaultJSONFormatter) PrintReport(report *Report) {
	data, _ := f.FormatReport(report)
	fmt.Println(string(data))
}

// WriteReportJSON writes one assessment batch to a JSON file
func WriteReportJSON(report *Report, path string) error {
	formatter := NewDefaultJSONFormatter()

	data, err := formatter.FormatReport(report)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Package-level convenience function

// PrintReportJSON is a convenience function using the default formatter
func PrintReportJSON(report *Report) {
	formatter := NewDefaultJSONFormatter()
	formatter.PrintReport(report)
}

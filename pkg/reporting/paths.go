package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputDir returns the default output directory for a batch label
func (p *DefaultPathManager) GetDefaultOutputDir(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		l = "batch"
	}

	return filepath.Join("results", fmt.Sprintf("%s_%s", l, time.Now().Format("20060102")))
}

// EnsureDirectoryExists creates directory if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// Package-level convenience function
func DefaultOutputDir(label string) string {
	manager := NewDefaultPathManager()
	return manager.GetDefaultOutputDir(label)
}

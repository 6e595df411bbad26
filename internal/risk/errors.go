package risk

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies engine failures by how callers should react
type ErrorCategory string

const (
	// Fatal: the request itself is malformed, nothing was computed
	ErrorCategoryInvalidInput ErrorCategory = "INVALID_INPUT"

	// Non-fatal: the affected symbol degrades to its fallback path
	ErrorCategoryDataUnavailable     ErrorCategory = "DATA_UNAVAILABLE"
	ErrorCategoryInsufficientHistory ErrorCategory = "INSUFFICIENT_HISTORY"
	ErrorCategoryDegenerate          ErrorCategory = "DEGENERATE"
	ErrorCategoryCorrelation         ErrorCategory = "CORRELATION_UNAVAILABLE"
)

// RiskError is a categorized error with the symbol and operation it came from
type RiskError struct {
	Category   ErrorCategory
	Symbol     string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *RiskError) Error() string {
	scope := e.Operation
	if e.Symbol != "" {
		scope = fmt.Sprintf("%s %s", e.Operation, e.Symbol)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Category, scope, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, scope, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *RiskError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether the error aborts the whole batch. Only malformed
// input does; every data problem is localized to its symbol.
func (e *RiskError) IsFatal() bool {
	return e.Category == ErrorCategoryInvalidInput
}

// NewInvalidInputError creates a fatal input-validation error
func NewInvalidInputError(operation, message string) *RiskError {
	return &RiskError{
		Category:  ErrorCategoryInvalidInput,
		Operation: operation,
		Message:   message,
	}
}

// NewDataUnavailableError wraps a fetch failure for one symbol
func NewDataUnavailableError(symbol string, err error) *RiskError {
	return &RiskError{
		Category:   ErrorCategoryDataUnavailable,
		Symbol:     symbol,
		Operation:  "fetch prices",
		Message:    "no usable price data",
		Underlying: err,
	}
}

// IsCategory reports whether err carries the given risk error category
func IsCategory(err error, category ErrorCategory) bool {
	var riskErr *RiskError
	if errors.As(err, &riskErr) {
		return riskErr.Category == category
	}
	return false
}

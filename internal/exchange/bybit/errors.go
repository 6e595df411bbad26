package bybit

import (
	"fmt"
	"net/http"
)

// BybitError represents a Bybit API error with additional context
type BybitError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *BybitError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Bybit API error %d: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("Bybit API error %d: %s", e.Code, e.Message)
}

// Common Bybit error codes
const (
	ErrCodeInvalidAPIKey     = 10003
	ErrCodeInvalidTimestamp  = 10005
	ErrCodeRateLimitExceeded = 10006
	ErrCodeSymbolNotFound    = 110009
)

// IsRetryableError determines if an error should be retried
func IsRetryableError(err error) bool {
	if bybitErr, ok := err.(*BybitError); ok {
		switch bybitErr.Code {
		case ErrCodeRateLimitExceeded:
			return true
		case http.StatusInternalServerError:
			return true
		case http.StatusBadGateway:
			return true
		case http.StatusServiceUnavailable:
			return true
		case http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

// NewBybitError creates a new BybitError
func NewBybitError(code int, message string, details ...string) *BybitError {
	err := &BybitError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WrapAPIError wraps a generic error with additional context
func WrapAPIError(operation string, err error) error {
	if err == nil {
		return nil
	}

	if bybitErr, ok := err.(*BybitError); ok {
		bybitErr.Details = fmt.Sprintf("Operation: %s", operation)
		return bybitErr
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// ParseAPIError extracts error information from the API response
func ParseAPIError(retCode int, retMsg string) error {
	if retCode == 0 {
		return nil
	}

	return NewBybitError(retCode, retMsg)
}

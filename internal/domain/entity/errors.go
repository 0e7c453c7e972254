package entity

import (
	"errors"
	"fmt"
)

var (
	ErrAddressRequired      = errors.New("address is required")
	ErrInvalidAddress       = errors.New("invalid address")
	ErrUnsupportedChain     = errors.New("unsupported chain")
	ErrPortfolioTimeout     = errors.New("operation timed out")
	ErrSummaryRequired      = errors.New("portfolio summary is required")
	ErrStreamTransport      = errors.New("stream transport failure")
	ErrStreamTruncated      = errors.New("stream ended without done marker")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrNoPortfolio          = errors.New("portfolio is not loaded")
)

// ValidationError is a caller mistake that must not be retried as is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError wraps err with the offending field name.
func NewValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

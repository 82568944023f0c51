package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeRoyaltyNotFound = "RYL001"
	ErrCodeNoAuthors       = "RYL002"
	ErrCodeInvalidAmount   = "RYL003"
	ErrCodeInvalidPeriod   = "RYL004"
	ErrCodeAlreadyPaid     = "RYL005"
	ErrCodeStatementExport = "RYL006"
	ErrCodeSalesImport     = "RYL007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrRoyaltyNotFound = errors.New("royalty entry not found")
	ErrNoAuthors       = errors.New("book has no authors to attribute royalties to")
	ErrInvalidAmount   = errors.New("sale amount must be positive")
	ErrAlreadyPaid     = errors.New("royalty entry already marked paid")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type RoyaltyError struct {
	Code    string
	Message string
	Err     error
}

func (e *RoyaltyError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RoyaltyError) Unwrap() error {
	return e.Err
}

func NewRoyaltyError(code, message string, err error) *RoyaltyError {
	return &RoyaltyError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

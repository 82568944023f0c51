package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound = "ORD001"
	ErrCodeEmptyOrder    = "ORD002"
	ErrCodeInvalidStatus = "ORD003"
	ErrCodeNotOwner      = "ORD004"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyOrder    = errors.New("order must contain at least one item")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrNotOwner      = errors.New("order belongs to another author")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

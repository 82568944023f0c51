package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeAuthorNotFound     = "AUT001"
	ErrCodeEmailTaken         = "AUT002"
	ErrCodeInvalidCredentials = "AUT003"
	ErrCodeSignupCompleted    = "AUT004"
	ErrCodeAccountInactive    = "AUT005"
	ErrCodeUIDIssueFailed     = "AUT006"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrAuthorNotFound     = errors.New("author not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSignupCompleted    = errors.New("signup already completed for this account")
	ErrAccountInactive    = errors.New("account is inactive")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type AuthorError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthorError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthorError) Unwrap() error {
	return e.Err
}

func NewAuthorError(code, message string, err error) *AuthorError {
	return &AuthorError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

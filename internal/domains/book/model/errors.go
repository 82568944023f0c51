package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeBookNotFound     = "BOK001"
	ErrCodeDuplicateISBN    = "BOK002"
	ErrCodeInvalidStage     = "BOK003"
	ErrCodeNoAuthorsLinked  = "BOK004"
	ErrCodeImportFailed     = "BOK005"
	ErrCodeManuscriptUpload = "BOK006"
	ErrCodeAuthorLinkExists = "BOK007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrDuplicateISBN    = errors.New("isbn already registered to another book")
	ErrInvalidStage     = errors.New("invalid publishing stage transition")
	ErrNoAuthorsLinked  = errors.New("book has no linked authors")
	ErrAuthorLinkExists = errors.New("author already linked to this book")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type BookError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *BookError) Unwrap() error {
	return e.Err
}

func NewBookError(code, message string, err error) *BookError {
	return &BookError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeSecretNotConfigured = "WBH001"
	ErrCodeMissingSignature    = "WBH002"
	ErrCodeInvalidSignature    = "WBH003"
	ErrCodeMalformedPayload    = "WBH004"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrSecretNotConfigured = errors.New("webhook secret not configured")
	ErrMissingSignature    = errors.New("missing webhook signature header")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrMalformedPayload    = errors.New("malformed webhook payload")
)

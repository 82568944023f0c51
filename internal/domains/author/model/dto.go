package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REGISTER / LOGIN
// =====================================================

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
}

func (req RegisterRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&req.FullName, validation.Required, validation.Length(1, 200)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req LoginRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Author       Author `json:"author"`
}

// =====================================================
// RESOLVE OPTIONS
// =====================================================

// ResolveOptions carries provenance for authors created as a side effect
// of CSV import or royalty posting.
type ResolveOptions struct {
	ImportSource string
	Phone        string
}

package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// AUTHOR UID
// =====================================================
const (
	AuthorUIDPrefix = "WP-AUTH-"

	// Sequence row key. The counter lives in a single row that every
	// issuance increments atomically.
	AuthorUIDSequenceKey = "singleton"
)

// FormatAuthorUID renders a sequence value as a public author identifier,
// e.g. 42 -> "WP-AUTH-000042". Values past six digits widen; they are
// never truncated.
func FormatAuthorUID(value int64) string {
	return fmt.Sprintf("%s%06d", AuthorUIDPrefix, value)
}

// =====================================================
// ROLES
// =====================================================
const (
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// =====================================================
// ENTITY: Author
// =====================================================
// An author account. Accounts created by CSV import or royalty posting
// start with an empty password hash; the author completes signup later.
type Author struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	AuthorUID *string   `json:"author_uid" db:"author_uid"`

	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	IsActive     bool   `json:"is_active" db:"is_active"`

	// Provenance for accounts created outside of registration.
	ImportSource *string `json:"import_source,omitempty" db:"import_source"`
	Phone        *string `json:"phone,omitempty" db:"phone"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasCompletedSignup reports whether the author has set a password.
func (a *Author) HasCompletedSignup() bool {
	return a.PasswordHash != ""
}

// NormalizeEmail lowercases and trims an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// TICKET STATUS
// =====================================================

type TicketStatus string

const (
	StatusOpen       TicketStatus = "OPEN"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusResolved   TicketStatus = "RESOLVED"
)

func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// =====================================================
// TICKET ENTITY
// =====================================================

// Ticket is an author's support request. Replies live on the ticket; the
// last admin reply is mailed to the author.
type Ticket struct {
	ID       uuid.UUID    `json:"id" db:"id"`
	AuthorID uuid.UUID    `json:"author_id" db:"author_id"`
	Subject  string       `json:"subject" db:"subject"`
	Body     string       `json:"body" db:"body"`
	Status   TicketStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Replies []TicketReply `json:"replies,omitempty"`
}

// TicketReply is one message on a ticket, from the author or an admin.
type TicketReply struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TicketID  uuid.UUID `json:"ticket_id" db:"ticket_id"`
	SenderID  uuid.UUID `json:"sender_id" db:"sender_id"`
	IsAdmin   bool      `json:"is_admin" db:"is_admin"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeTicketNotFound = "SUP001"
	ErrCodeNotOwner       = "SUP002"
	ErrCodeInvalidStatus  = "SUP003"
	ErrCodeTicketResolved = "SUP004"
)

var (
	ErrTicketNotFound = errors.New("support ticket not found")
	ErrNotOwner       = errors.New("ticket belongs to another author")
	ErrInvalidStatus  = errors.New("invalid ticket status")
	ErrTicketResolved = errors.New("ticket is already resolved")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type SupportError struct {
	Code    string
	Message string
	Err     error
}

func (e *SupportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *SupportError) Unwrap() error {
	return e.Err
}

func NewSupportError(code, message string, err error) *SupportError {
	return &SupportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// REQUEST DTOs
// =====================================================

type CreateTicketRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (r CreateTicketRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Subject, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.Body, validation.Required, validation.Length(1, 5000)),
	)
}

type ReplyRequest struct {
	Body string `json:"body"`
	// Resolve closes the ticket along with the reply.
	Resolve bool `json:"resolve"`
}

func (r ReplyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.Length(1, 5000)),
	)
}

type UpdateTicketStatusRequest struct {
	Status TicketStatus `json:"status"`
}

func (r UpdateTicketStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.By(func(value interface{}) error {
			if status, ok := value.(TicketStatus); ok && !status.IsValid() {
				return validation.NewError("validation_status", "must be a known ticket status")
			}
			return nil
		})),
	)
}

type ListTicketsFilter struct {
	AuthorID *uuid.UUID
	Status   *TicketStatus
	Limit    int
	Offset   int
}

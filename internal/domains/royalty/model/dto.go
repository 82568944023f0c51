package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// PostSaleRequest posts one manual sale through the splitter (admin).
type PostSaleRequest struct {
	BookID     uuid.UUID `json:"book_id"`
	SaleAmount float64   `json:"sale_amount"`
	Platform   string    `json:"platform"`
	Period     string    `json:"period"`
	SaleRef    *string   `json:"sale_ref"`
}

func (r PostSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, validation.By(validUUID)),
		validation.Field(&r.SaleAmount, validation.Required, validation.Min(0.01)),
		validation.Field(&r.Period, validation.By(validOptionalPeriod)),
	)
}

type MarkPaidRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (r MarkPaidRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs, validation.Required, validation.Length(1, 500)),
	)
}

func validUUID(value interface{}) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return validation.NewError("validation_uuid", "must be a valid uuid")
	}
	return nil
}

func validOptionalPeriod(value interface{}) error {
	period, ok := value.(string)
	if !ok || period == "" {
		return nil
	}
	if _, err := ParsePeriod(period); err != nil {
		return validation.NewError("validation_period", "must be YYYY-MM")
	}
	return nil
}

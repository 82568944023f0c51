package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type OrderItemRequest struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

func (r OrderItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(500)),
	)
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

func (r CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Required, validation.Length(1, 50)),
	)
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

func (r UpdateOrderStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.By(func(value interface{}) error {
			if status, ok := value.(OrderStatus); ok && !status.IsValid() {
				return validation.NewError("validation_status", "must be a known order status")
			}
			return nil
		})),
	)
}

type ListOrdersFilter struct {
	AuthorID *uuid.UUID
	Status   *OrderStatus
	Limit    int
	Offset   int
}

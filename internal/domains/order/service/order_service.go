package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	bookrepo "writerspocket-backend/internal/domains/book/repository"
	"writerspocket-backend/internal/domains/order/model"
	"writerspocket-backend/internal/domains/order/repository"
	"writerspocket-backend/internal/domains/payment/gateway"
)

// ServiceInterface is the order business logic contract.
type ServiceInterface interface {
	Create(ctx context.Context, authorID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetForAuthor(ctx context.Context, id, authorID uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter model.ListOrdersFilter) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// =====================================================
// ORDER SERVICE IMPLEMENTATION
// =====================================================
type orderService struct {
	repo     repository.RepositoryInterface
	bookRepo bookrepo.RepositoryInterface
	gateway  gateway.PaymentGateway
}

func NewOrderService(
	repo repository.RepositoryInterface,
	bookRepo bookrepo.RepositoryInterface,
	paymentGateway gateway.PaymentGateway,
) ServiceInterface {
	return &orderService{
		repo:     repo,
		bookRepo: bookRepo,
		gateway:  paymentGateway,
	}
}

// Create builds an author-copy order from current book prices and opens a
// gateway order for it. The order starts PENDING; webhooks move it on.
func (s *orderService) Create(ctx context.Context, authorID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, model.NewOrderError(model.ErrCodeEmptyOrder, "Order must contain at least one item", model.ErrEmptyOrder)
	}

	order := &model.Order{
		OrderNumber: newOrderNumber(),
		AuthorID:    authorID,
		Status:      model.StatusPending,
		Items:       make([]model.OrderItem, 0, len(req.Items)),
	}

	for _, itemReq := range req.Items {
		if err := itemReq.Validate(); err != nil {
			return nil, err
		}

		book, err := s.bookRepo.GetByID(ctx, itemReq.BookID)
		if err != nil {
			return nil, err
		}

		lineTotal := book.Price.Mul(decimal.NewFromInt(int64(itemReq.Quantity)))
		order.Items = append(order.Items, model.OrderItem{
			BookID:    book.ID,
			Quantity:  itemReq.Quantity,
			UnitPrice: book.Price,
			LineTotal: lineTotal,
		})
		order.Subtotal = order.Subtotal.Add(lineTotal)
	}
	order.Total = order.Subtotal

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	// A gateway order lets the dashboard open checkout immediately. An
	// unconfigured gateway is not an error; the order stays payable later.
	if s.gateway != nil && s.gateway.Configured() {
		gwOrder, err := s.gateway.CreateOrder(ctx, order.Total, "INR", order.OrderNumber)
		if err != nil {
			log.Warn().Err(err).
				Str("order_number", order.OrderNumber).
				Msg("Failed to open gateway order")
		} else {
			if err := s.repo.SetRazorpayOrderID(ctx, order.ID, gwOrder.ID); err != nil {
				return nil, err
			}
			order.RazorpayOrderID = &gwOrder.ID
		}
	}

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("author_id", authorID.String()).
		Str("total", order.Total.String()).
		Msg("Order created")

	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GetForAuthor enforces ownership for author-facing reads.
func (s *orderService) GetForAuthor(ctx context.Context, id, authorID uuid.UUID) (*model.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.AuthorID != authorID {
		return nil, model.NewOrderError(model.ErrCodeNotOwner, "Order belongs to another author", model.ErrNotOwner)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, filter model.ListOrdersFilter) ([]model.Order, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.IsValid() {
		return nil, model.NewOrderError(model.ErrCodeInvalidStatus, "Unknown order status", model.ErrInvalidStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func newOrderNumber() string {
	return fmt.Sprintf("WP-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(xid.New().String()[12:]),
	)
}

package order

import (
	"context"
	"fmt"

	"ordergate/internal/constants"
	"ordergate/internal/logger"
	pkgerrors "ordergate/pkg/errors"
	"ordergate/pkg/logging"
	"ordergate/pkg/metrics"
)

type Service interface {
	CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*CreateOrderResult, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]Order, error)
}

// CreateOrderResult pairs the persisted order with the outcome of the event
// publish: "published" when the broker confirmed, "pending" when the record
// committed but the event did not (degraded success, never a rollback).
type CreateOrderResult struct {
	Order       *Order
	EventStatus string
}

type service struct {
	repo      Repository
	publisher EventPublisher
	logger    logger.Logger
}

func NewService(repo Repository, publisher EventPublisher, log logger.Logger) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

func (s *service) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*CreateOrderResult, error) {
	if err := validateCreateOrder(userID, req); err != nil {
		metrics.OrdersCreatedTotal.WithLabelValues("validation_error").Inc()
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	order := &Order{
		UserID:     userID,
		ProductID:  req.ProductID,
		Qty:        req.Qty,
		UnitPrice:  req.UnitPrice,
		TotalPrice: float64(req.Qty) * req.UnitPrice,
		Status:     constants.OrderStatusCreated,
	}

	// The record must be durable before any event referencing it is sent.
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		metrics.OrdersCreatedTotal.WithLabelValues("persistence_error").Inc()
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	metrics.OrdersCreatedTotal.WithLabelValues("created").Inc()

	ctx = logging.WithOrderID(ctx, order.ID)
	s.logger.InfowCtx(ctx, "Order created",
		"user_id", order.UserID,
		"product_id", order.ProductID,
		"total_price", order.TotalPrice,
	)

	eventStatus := constants.EventStatusPublished
	if err := s.publisher.PublishCreated(ctx, NewOrderEvent(order)); err != nil {
		// The order is already committed; report the event as pending so a
		// reconciliation job can replay it from the log context.
		eventStatus = constants.EventStatusPending
	}

	return &CreateOrderResult{
		Order:       order,
		EventStatus: eventStatus,
	}, nil
}

func (s *service) GetOrdersByUserID(ctx context.Context, userID string) ([]Order, error) {
	if userID == "" {
		return nil, pkgerrors.ErrValidation.WithDetail("message", "userId is required")
	}

	orders, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

func validateCreateOrder(userID string, req CreateOrderRequest) error {
	if userID == "" {
		return fmt.Errorf("userId is required")
	}
	if req.ProductID == "" {
		return fmt.Errorf("productId is required")
	}
	if req.Qty <= 0 {
		return fmt.Errorf("qty must be greater than zero")
	}
	if req.UnitPrice < 0 {
		return fmt.Errorf("unitPrice must not be negative")
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"craftdash/internal/domain"
	"craftdash/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// OrderService defines the interface for order business logic
type OrderService interface {
	CreateOrder(ctx context.Context, productID, userID uuid.UUID, quantity int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// CreateOrder records a purchase. The total price is fixed here, exactly
// once, as the product's price at this instant times the quantity, using
// decimal arithmetic so there is no rounding drift. Later price changes on
// the product never touch the stored total.
func (s *orderService) CreateOrder(ctx context.Context, productID, userID uuid.UUID, quantity int64) (*domain.Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product for order: %w", err)
	}

	order := &domain.Order{
		ID:         uuid.New(),
		ProductID:  product.ID,
		UserID:     userID,
		Quantity:   quantity,
		TotalPrice: product.Price.Mul(decimal.NewFromInt(quantity)),
		Status:     domain.OrderStatusPending,
		CreatedAt:  time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// ListOrders returns every order, newest first.
func (s *orderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

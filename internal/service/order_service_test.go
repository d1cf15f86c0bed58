package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"craftdash/internal/domain"
	"craftdash/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock repositories for testing

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	order    []uuid.UUID // insertion order, newest appended last
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	m.order = append(m.order, product.ID)
	return nil
}

func (m *mockProductRepository) CreateBatch(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		if err := m.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.products[m.order[i]])
	}
	return out, nil
}

func (m *mockProductRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Product, error) {
	all, _ := m.ListAll(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type mockOrderRepository struct {
	orders []*domain.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(m.orders))
	for i := len(m.orders) - 1; i >= 0; i-- {
		out = append(out, m.orders[i])
	}
	return out, nil
}

func (m *mockOrderRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	all, _ := m.ListAll(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func TestProperty_OrderTotalIsExactPriceTimesQuantity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total price equals product price times quantity with no drift", prop.ForAll(
		func(cents int64, quantity int64) bool {
			productRepo := newMockProductRepository()
			orderRepo := newMockOrderRepository()
			service := NewOrderService(orderRepo, productRepo)
			ctx := context.Background()

			price := decimal.New(cents, -2) // two decimal places
			product := &domain.Product{
				ID:     uuid.New(),
				Name:   "Sticker Pack",
				Price:  price,
				Cost:   decimal.New(1, 0),
				Status: domain.ProductStatusActive,
			}
			if err := productRepo.Create(ctx, product); err != nil {
				return false
			}

			order, err := service.CreateOrder(ctx, product.ID, uuid.New(), quantity)
			if err != nil {
				t.Logf("FAIL: CreateOrder returned error: %v", err)
				return false
			}

			expected := price.Mul(decimal.NewFromInt(quantity))
			if !order.TotalPrice.Equal(expected) {
				t.Logf("FAIL: total %s, want %s (price %s x %d)", order.TotalPrice, expected, price, quantity)
				return false
			}
			if order.Status != domain.OrderStatusPending {
				t.Logf("FAIL: new order status %s, want pending", order.Status)
				return false
			}

			// The stored order carries the same immutable total.
			if len(orderRepo.orders) != 1 || !orderRepo.orders[0].TotalPrice.Equal(expected) {
				t.Logf("FAIL: persisted order does not match computed total")
				return false
			}

			return true
		},
		gen.Int64Range(1, 99_999_99), // prices from 0.01 to 99999.99
		gen.Int64Range(1, 10_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	productRepo := newMockProductRepository()
	orderRepo := newMockOrderRepository()
	service := NewOrderService(orderRepo, productRepo)
	ctx := context.Background()

	product := &domain.Product{
		ID:     uuid.New(),
		Name:   "Print",
		Price:  decimal.RequireFromString("12.50"),
		Cost:   decimal.RequireFromString("2.00"),
		Status: domain.ProductStatusActive,
	}
	require.NoError(t, productRepo.Create(ctx, product))

	for _, quantity := range []int64{0, -1, -42} {
		_, err := service.CreateOrder(ctx, product.ID, uuid.New(), quantity)
		assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", quantity)
	}

	assert.Empty(t, orderRepo.orders, "rejected orders must not be persisted")
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	service := NewOrderService(newMockOrderRepository(), newMockProductRepository())

	_, err := service.CreateOrder(context.Background(), uuid.New(), uuid.New(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrProductNotFound), "got %v", err)
}

func TestCreateOrderKeepsTotalWhenProductPriceChanges(t *testing.T) {
	productRepo := newMockProductRepository()
	orderRepo := newMockOrderRepository()
	service := NewOrderService(orderRepo, productRepo)
	ctx := context.Background()

	product := &domain.Product{
		ID:     uuid.New(),
		Name:   "Planner",
		Price:  decimal.RequireFromString("10.00"),
		Cost:   decimal.RequireFromString("3.00"),
		Status: domain.ProductStatusActive,
	}
	require.NoError(t, productRepo.Create(ctx, product))

	order, err := service.CreateOrder(ctx, product.ID, uuid.New(), 3)
	require.NoError(t, err)
	require.True(t, order.TotalPrice.Equal(decimal.RequireFromString("30.00")))

	// A later administrative price change must not ripple into the order.
	product.Price = decimal.RequireFromString("99.00")
	assert.True(t, orderRepo.orders[0].TotalPrice.Equal(decimal.RequireFromString("30.00")),
		"stored total changed after product price edit: %s", fmt.Sprint(orderRepo.orders[0].TotalPrice))
}

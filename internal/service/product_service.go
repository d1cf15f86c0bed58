package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"craftdash/internal/domain"
	"craftdash/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCount         = errors.New("count must be a positive integer")
	ErrInvalidProductStatus = errors.New("invalid product status")
)

// Price and cost bounds for generated sample products. Demo ranges, not a
// pricing policy.
var (
	generatedPriceMin = decimal.RequireFromString("5.00")
	generatedPriceMax = decimal.RequireFromString("50.00")
	generatedCostMin  = decimal.RequireFromString("1.00")
)

// ProductService defines the interface for catalog business logic
type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	Generate(ctx context.Context, count int, baseName string, status domain.ProductStatus) ([]*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	rng         *rand.Rand
}

// NewProductService creates a new instance of ProductService. rng may be
// nil, in which case a time-seeded source is used; tests inject a fixed
// seed.
func NewProductService(productRepo repository.ProductRepository, rng *rand.Rand) ProductService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &productService{
		productRepo: productRepo,
		rng:         rng,
	}
}

// ListProducts returns every product, newest first.
func (s *productService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Generate bulk-creates count sample products named "base #i" (1-indexed)
// with a uniform random price in [5.00, 50.00] and a cost in
// [1.00, price-1.00], both rounded to 2 decimals, so cost is always
// strictly below price. count < 1 is a validation failure and creates
// nothing; the batch insert keeps partial generations out of the store.
func (s *productService) Generate(ctx context.Context, count int, baseName string, status domain.ProductStatus) ([]*domain.Product, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}
	if !status.Valid() {
		return nil, ErrInvalidProductStatus
	}
	if baseName == "" {
		baseName = "Product"
	}

	now := time.Now()
	products := make([]*domain.Product, 0, count)
	for i := 1; i <= count; i++ {
		price := s.uniform(generatedPriceMin, generatedPriceMax)
		cost := s.uniform(generatedCostMin, price.Sub(generatedCostMin))
		products = append(products, &domain.Product{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("%s #%d", baseName, i),
			Price:     price,
			Cost:      cost,
			Status:    status,
			CreatedAt: now,
		})
	}

	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to generate products: %w", err)
	}

	return products, nil
}

// uniform draws a 2-decimal value uniformly from [min, max]. When the
// range collapses (max <= min) it returns min.
func (s *productService) uniform(min, max decimal.Decimal) decimal.Decimal {
	span := max.Sub(min)
	if span.Sign() <= 0 {
		return min
	}
	f, _ := span.Float64()
	return min.Add(decimal.NewFromFloat(s.rng.Float64() * f)).Round(2)
}

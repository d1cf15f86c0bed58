package service

import (
	"context"
	"fmt"
	"time"

	"craftdash/internal/analytics"
	"craftdash/internal/domain"
	"craftdash/internal/etsy"
	"craftdash/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recentLimit = 5

// DashboardView is the context structure for the main dashboard page.
type DashboardView struct {
	Summary           analytics.GlobalSummary  `json:"summary"`
	MostSelling       *analytics.ProductStat   `json:"most_selling_product"`
	MostProfitable    *analytics.ProductStat   `json:"most_profitable_product"`
	RecentProducts    []*domain.Product        `json:"recent_products"`
	RecentOrders      []*domain.Order          `json:"recent_orders"`
	EtsyListings      map[string]interface{}   `json:"etsy_listings,omitempty"`
	EtsyListingsError string                   `json:"etsy_listings_error,omitempty"`
}

// RevenueView is the full analytics output for the revenue page.
type RevenueView struct {
	Summary        analytics.GlobalSummary     `json:"summary"`
	Products       []analytics.ProductStat     `json:"products"`
	MostSelling    *analytics.ProductStat      `json:"most_selling_product"`
	MostProfitable *analytics.ProductStat      `json:"most_profitable_product"`
	TopSelling     []analytics.ProductStat     `json:"top_selling_products"`
	Trending       []analytics.TrendingProduct `json:"trending_products"`
	Customers      analytics.CustomerSummary   `json:"customers"`
	Operational    analytics.OperationalSummary `json:"operational"`
}

// OrdersView is the context structure for the orders page. Its ledger
// totals use the orders-page profit definition, not the dashboard one.
type OrdersView struct {
	Orders   []*domain.Order         `json:"orders"`
	Ledger   analytics.LedgerSummary `json:"ledger"`
	Products []analytics.ProductStat `json:"product_summary"`
}

// InsightsService assembles the read-only page contexts from stored
// records and the pure analytics functions.
type InsightsService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardView, error)
	Revenue(ctx context.Context) (*RevenueView, error)
	Orders(ctx context.Context) (*OrdersView, error)
}

type insightsService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	profileRepo repository.ProfileRepository
	etsyClient  *etsy.Client
	etsyShopID  string
	logger      *zap.Logger
}

// NewInsightsService creates a new instance of InsightsService. etsyClient
// may be nil to disable the listings fetch entirely.
func NewInsightsService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	profileRepo repository.ProfileRepository,
	etsyClient *etsy.Client,
	etsyShopID string,
	logger *zap.Logger,
) InsightsService {
	return &insightsService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		etsyClient:  etsyClient,
		etsyShopID:  etsyShopID,
		logger:      logger,
	}
}

// Dashboard builds the summary page context. When the user has a connected
// Etsy account the shop listings are fetched inline; a fetch failure is
// reported as an inline error value and never fails the page.
func (s *insightsService) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardView, error) {
	products, orders, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	stats := analytics.BreakdownByProduct(products, orders)
	view := &DashboardView{
		Summary:        analytics.Summarize(products, orders, time.Now()),
		MostSelling:    analytics.MostSelling(stats),
		MostProfitable: analytics.MostProfitable(stats),
	}

	if view.RecentProducts, err = s.productRepo.ListRecent(ctx, recentLimit); err != nil {
		return nil, fmt.Errorf("failed to load recent products: %w", err)
	}
	if view.RecentOrders, err = s.orderRepo.ListRecent(ctx, recentLimit); err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	s.attachEtsyListings(ctx, userID, view)
	return view, nil
}

// Revenue builds the full analytics page context.
func (s *insightsService) Revenue(ctx context.Context) (*RevenueView, error) {
	products, orders, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	summary := analytics.Summarize(products, orders, time.Now())
	stats := analytics.BreakdownByProduct(products, orders)

	return &RevenueView{
		Summary:        summary,
		Products:       stats,
		MostSelling:    analytics.MostSelling(stats),
		MostProfitable: analytics.MostProfitable(stats),
		TopSelling:     analytics.TopSelling(stats, 5),
		Trending:       analytics.Trending(products, orders, time.Now(), 5),
		Customers:      analytics.Customers(orders),
		Operational:    analytics.Operational(summary),
	}, nil
}

// Orders builds the orders page context with its own ledger totals.
func (s *insightsService) Orders(ctx context.Context) (*OrdersView, error) {
	products, orders, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	return &OrdersView{
		Orders:   orders,
		Ledger:   analytics.Ledger(products, orders),
		Products: analytics.BreakdownByProduct(products, orders),
	}, nil
}

func (s *insightsService) loadRecords(ctx context.Context) ([]*domain.Product, []*domain.Order, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load products: %w", err)
	}
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return products, orders, nil
}

func (s *insightsService) attachEtsyListings(ctx context.Context, userID uuid.UUID, view *DashboardView) {
	if s.etsyClient == nil || s.etsyShopID == "" {
		return
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err != repository.ErrProfileNotFound {
			s.logger.Warn("Failed to load profile for dashboard", zap.Error(err))
		}
		return
	}
	if profile.EtsyAccessToken == "" {
		return
	}

	listings, err := s.etsyClient.ShopListings(ctx, profile.EtsyAccessToken, s.etsyShopID)
	if err != nil {
		s.logger.Warn("Etsy listings fetch failed", zap.Error(err))
		view.EtsyListingsError = err.Error()
		return
	}
	view.EtsyListings = listings
}

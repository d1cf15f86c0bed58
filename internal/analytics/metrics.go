// Package analytics computes read-side revenue and sales metrics from
// product and order records. Every function is pure: it takes the records
// it needs and never touches storage. All currency math uses exact decimal
// arithmetic, and every ratio is defined to be zero when its denominator is
// zero, so a brand-new system with no activity reports zeros instead of
// failing.
package analytics

import (
	"sort"
	"time"

	"craftdash/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrendingWindow is the trailing period considered by Trending.
const TrendingWindow = 7 * 24 * time.Hour

var oneHundred = decimal.NewFromInt(100)

// GlobalSummary is the dashboard-level aggregate over the whole store.
// TotalCost sums each product's one-time cost exactly once, no matter how
// many units were sold; TotalProfit is TotalRevenue minus that sum.
type GlobalSummary struct {
	TotalProducts        int             `json:"total_products"`
	ActiveProducts       int             `json:"active_products"`
	InactiveProducts     int             `json:"inactive_products"`
	ProductsCreatedToday int             `json:"products_created_today"`
	CompletedOrders      int             `json:"completed_orders"`
	PendingOrders        int             `json:"pending_orders"`
	CanceledOrders       int             `json:"canceled_orders"`
	TotalUnitsSold       int64           `json:"total_units_sold"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	TotalProfit          decimal.Decimal `json:"total_profit"`
	AvgOrderValue        decimal.Decimal `json:"avg_order_value"`
	ProfitMargin         decimal.Decimal `json:"profit_margin"`
}

// ProductStat is the per-product breakdown restricted to completed orders.
type ProductStat struct {
	ProductID       uuid.UUID            `json:"product_id"`
	Name            string               `json:"name"`
	Status          domain.ProductStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
	CompletedOrders int                  `json:"completed_orders"`
	UnitsSold       int64                `json:"units_sold"`
	Revenue         decimal.Decimal      `json:"revenue"`
	Cost            decimal.Decimal      `json:"cost"`
	Profit          decimal.Decimal      `json:"profit"`
}

// Summarize computes the global summary. now anchors the "created today"
// counter; order and product records are taken as-is.
func Summarize(products []*domain.Product, orders []*domain.Order, now time.Time) GlobalSummary {
	s := GlobalSummary{
		TotalRevenue:  decimal.Zero,
		TotalCost:     decimal.Zero,
		TotalProfit:   decimal.Zero,
		AvgOrderValue: decimal.Zero,
		ProfitMargin:  decimal.Zero,
	}

	s.TotalProducts = len(products)
	for _, p := range products {
		switch p.Status {
		case domain.ProductStatusActive:
			s.ActiveProducts++
		case domain.ProductStatusInactive:
			s.InactiveProducts++
		}
		if sameDay(p.CreatedAt, now) {
			s.ProductsCreatedToday++
		}
		s.TotalCost = s.TotalCost.Add(p.Cost)
	}

	for _, o := range orders {
		switch o.Status {
		case domain.OrderStatusCompleted:
			s.CompletedOrders++
			s.TotalUnitsSold += o.Quantity
			s.TotalRevenue = s.TotalRevenue.Add(o.TotalPrice)
		case domain.OrderStatusPending:
			s.PendingOrders++
		case domain.OrderStatusCanceled:
			s.CanceledOrders++
		}
	}

	s.TotalProfit = s.TotalRevenue.Sub(s.TotalCost)
	s.AvgOrderValue = safeDiv(s.TotalRevenue, decimal.NewFromInt(int64(s.CompletedOrders)))
	s.ProfitMargin = safePercent(s.TotalProfit, s.TotalRevenue)
	return s
}

// BreakdownByProduct returns one stat row per product, in the order the
// products were given. Only completed orders contribute units and revenue.
func BreakdownByProduct(products []*domain.Product, orders []*domain.Order) []ProductStat {
	type tally struct {
		orders  int
		units   int64
		revenue decimal.Decimal
	}
	tallies := make(map[uuid.UUID]*tally, len(products))
	for _, o := range orders {
		if o.Status != domain.OrderStatusCompleted {
			continue
		}
		t := tallies[o.ProductID]
		if t == nil {
			t = &tally{revenue: decimal.Zero}
			tallies[o.ProductID] = t
		}
		t.orders++
		t.units += o.Quantity
		t.revenue = t.revenue.Add(o.TotalPrice)
	}

	stats := make([]ProductStat, 0, len(products))
	for _, p := range products {
		stat := ProductStat{
			ProductID: p.ID,
			Name:      p.Name,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
			Revenue:   decimal.Zero,
			Cost:      p.Cost,
		}
		if t := tallies[p.ID]; t != nil {
			stat.CompletedOrders = t.orders
			stat.UnitsSold = t.units
			stat.Revenue = t.revenue
		}
		stat.Profit = stat.Revenue.Sub(stat.Cost)
		stats = append(stats, stat)
	}
	return stats
}

// MostSelling returns the product with the most units sold among products
// with at least one completed order, or nil when no product qualifies.
// Ties break deterministically: earlier creation wins, then smaller ID.
func MostSelling(stats []ProductStat) *ProductStat {
	return pickMax(stats, func(a, b ProductStat) int {
		switch {
		case a.UnitsSold > b.UnitsSold:
			return 1
		case a.UnitsSold < b.UnitsSold:
			return -1
		}
		return 0
	})
}

// MostProfitable returns the product with the highest profit (revenue minus
// one-time cost) among products with at least one completed order, or nil.
// Same tie-break as MostSelling.
func MostProfitable(stats []ProductStat) *ProductStat {
	return pickMax(stats, func(a, b ProductStat) int {
		return a.Profit.Cmp(b.Profit)
	})
}

// TopSelling returns up to n products sorted by units sold, descending,
// with the deterministic tie-break. Products without completed orders are
// excluded.
func TopSelling(stats []ProductStat, n int) []ProductStat {
	qualified := make([]ProductStat, 0, len(stats))
	for _, s := range stats {
		if s.CompletedOrders > 0 {
			qualified = append(qualified, s)
		}
	}
	sort.SliceStable(qualified, func(i, j int) bool {
		if qualified[i].UnitsSold != qualified[j].UnitsSold {
			return qualified[i].UnitsSold > qualified[j].UnitsSold
		}
		return beforeTie(qualified[i], qualified[j])
	})
	if len(qualified) > n {
		qualified = qualified[:n]
	}
	return qualified
}

// TrendingProduct is a product's sales volume within the trailing window.
type TrendingProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitsSold int64     `json:"units_sold"`
}

// Trending returns up to n products ranked by units sold from completed
// orders inside the half-open interval [now-7d, now). An order created
// exactly seven days ago is included; one created at now is not.
func Trending(products []*domain.Product, orders []*domain.Order, now time.Time, n int) []TrendingProduct {
	start := now.Add(-TrendingWindow)
	units := make(map[uuid.UUID]int64)
	for _, o := range orders {
		if o.Status != domain.OrderStatusCompleted {
			continue
		}
		if o.CreatedAt.Before(start) || !o.CreatedAt.Before(now) {
			continue
		}
		units[o.ProductID] += o.Quantity
	}

	trending := make([]TrendingProduct, 0, len(products))
	for _, p := range products {
		trending = append(trending, TrendingProduct{
			ProductID: p.ID,
			Name:      p.Name,
			UnitsSold: units[p.ID],
		})
	}
	// Keyed by position in the (created_at-ordered) product list, the
	// stable sort makes the ranking deterministic across runs.
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].UnitsSold > trending[j].UnitsSold
	})
	if len(trending) > n {
		trending = trending[:n]
	}
	return trending
}

func pickMax(stats []ProductStat, cmp func(a, b ProductStat) int) *ProductStat {
	var best *ProductStat
	for i := range stats {
		s := &stats[i]
		if s.CompletedOrders == 0 {
			continue
		}
		if best == nil {
			best = s
			continue
		}
		switch c := cmp(*s, *best); {
		case c > 0:
			best = s
		case c == 0:
			if beforeTie(*s, *best) {
				best = s
			}
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// beforeTie orders tied products: earlier creation first, then smaller ID.
func beforeTie(a, b ProductStat) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ProductID.String() < b.ProductID.String()
}

// safeDiv divides num by den rounded to 2 decimal places, returning zero
// when den is zero.
func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Round(2)
}

// safePercent returns num/den*100 rounded to 2 decimal places, or zero when
// den is zero.
func safePercent(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(oneHundred).Round(2)
}

func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

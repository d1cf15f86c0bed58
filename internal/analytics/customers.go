package analytics

import (
	"craftdash/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerSummary segments the buyer base by completed orders.
type CustomerSummary struct {
	ActiveCustomers      int             `json:"active_customers"`
	RepeatCustomers      int             `json:"repeat_customers"`
	AvgOrdersPerCustomer decimal.Decimal `json:"avg_orders_per_customer"`
}

// Customers counts distinct users with at least one completed order, the
// subset with more than one, and the average completed orders per active
// customer (zero when nobody has bought anything).
func Customers(orders []*domain.Order) CustomerSummary {
	completedByUser := make(map[uuid.UUID]int)
	completed := 0
	for _, o := range orders {
		if o.Status != domain.OrderStatusCompleted {
			continue
		}
		completedByUser[o.UserID]++
		completed++
	}

	summary := CustomerSummary{AvgOrdersPerCustomer: decimal.Zero}
	summary.ActiveCustomers = len(completedByUser)
	for _, n := range completedByUser {
		if n > 1 {
			summary.RepeatCustomers++
		}
	}
	summary.AvgOrdersPerCustomer = safeDiv(
		decimal.NewFromInt(int64(completed)),
		decimal.NewFromInt(int64(summary.ActiveCustomers)),
	)
	return summary
}

// OperationalSummary holds store-efficiency ratios.
type OperationalSummary struct {
	RevenuePerProduct decimal.Decimal `json:"revenue_per_product"`
	CostEfficiency    decimal.Decimal `json:"cost_efficiency"`
}

// Operational divides completed-order revenue across the whole catalog and
// relates profit to the total one-time cost. Both ratios are zero when
// their denominator is zero.
func Operational(summary GlobalSummary) OperationalSummary {
	return OperationalSummary{
		RevenuePerProduct: safeDiv(summary.TotalRevenue, decimal.NewFromInt(int64(summary.TotalProducts))),
		CostEfficiency:    safePercent(summary.TotalProfit, summary.TotalCost),
	}
}

// LedgerSummary is the orders-page variant of the totals. It deliberately
// differs from GlobalSummary: TotalRevenue sums total_price over ALL
// orders regardless of status, and LedgerProfit subtracts each order's
// product cost from that order's total_price, charging a product's cost
// once per order rather than once per product. The two profit definitions
// conflict in the upstream requirements and are kept as separately named
// metrics pending a product decision; do not unify them.
type LedgerSummary struct {
	TotalOrders     int             `json:"total_orders"`
	CompletedOrders int             `json:"completed_orders"`
	PendingOrders   int             `json:"pending_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	LedgerProfit    decimal.Decimal `json:"ledger_profit"`
}

// Ledger computes the orders-page totals over all orders.
func Ledger(products []*domain.Product, orders []*domain.Order) LedgerSummary {
	costs := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		costs[p.ID] = p.Cost
	}

	ledger := LedgerSummary{
		TotalRevenue: decimal.Zero,
		LedgerProfit: decimal.Zero,
	}
	for _, o := range orders {
		ledger.TotalOrders++
		switch o.Status {
		case domain.OrderStatusCompleted:
			ledger.CompletedOrders++
		case domain.OrderStatusPending:
			ledger.PendingOrders++
		}
		ledger.TotalRevenue = ledger.TotalRevenue.Add(o.TotalPrice)
		ledger.LedgerProfit = ledger.LedgerProfit.Add(o.TotalPrice.Sub(costs[o.ProductID]))
	}
	return ledger
}

package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesTotals holds the raw aggregates behind the dashboard summary
type SalesTotals struct {
	TotalRevenue   decimal.Decimal
	NetProfit      decimal.Decimal
	TotalOrders    int64
	TotalReturns   int64
	TotalListings  int64
	ActiveListings int64
}

// DailyRevenue is one day of revenue in the trend chart
type DailyRevenue struct {
	Date       time.Time
	Revenue    decimal.Decimal
	OrderCount int64
}

// CategoryProfit is accumulated profit per product category
type CategoryProfit struct {
	Category   string
	Profit     decimal.Decimal
	OrderCount int64
}

// ProductPerformance ranks a product by accumulated profit
type ProductPerformance struct {
	ProductID   uuid.UUID
	ProductName string
	OrdersCount int
	TotalProfit decimal.Decimal
}

// AnalyticsRepository reads cross-aggregate dashboard figures.
// Implementations run aggregate SQL; none of these mutate state.
type AnalyticsRepository interface {
	// SalesTotals returns the lifetime aggregates for the summary block
	SalesTotals(ctx context.Context) (*SalesTotals, error)

	// DailyRevenue returns per-day revenue for the trailing number of days
	DailyRevenue(ctx context.Context, days int) ([]DailyRevenue, error)

	// ProfitByCategory returns accumulated profit grouped by product category
	ProfitByCategory(ctx context.Context) ([]CategoryProfit, error)

	// TopProducts returns the best performing products by profit
	TopProducts(ctx context.Context, limit int) ([]ProductPerformance, error)

	// WorstProducts returns the worst performing products by profit
	WorstProducts(ctx context.Context, limit int) ([]ProductPerformance, error)
}

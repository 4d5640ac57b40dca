package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/reseller/backoffice/internal/domain/catalog"
	"github.com/reseller/backoffice/internal/domain/report"
	"github.com/reseller/backoffice/internal/domain/trade"
)

// GormAnalyticsRepository implements report.AnalyticsRepository using GORM
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// SalesTotals returns the lifetime aggregates for the summary block.
// Cancelled orders are excluded from revenue and profit.
func (r *GormAnalyticsRepository) SalesTotals(ctx context.Context) (*report.SalesTotals, error) {
	type orderTotals struct {
		TotalRevenue decimal.Decimal
		NetProfit    decimal.Decimal
		TotalOrders  int64
		TotalReturns int64
	}

	var ot orderTotals
	err := r.db.WithContext(ctx).Table("orders").
		Select(`
			COALESCE(SUM(sale_price), 0) as total_revenue,
			COALESCE(SUM(net_profit), 0) as net_profit,
			COUNT(*) as total_orders,
			COUNT(*) FILTER (WHERE order_status = ?) as total_returns
		`, trade.OrderStatusReturned).
		Where("order_status <> ?", trade.OrderStatusCancelled).
		Scan(&ot).Error
	if err != nil {
		return nil, err
	}

	var totalListings, activeListings int64
	if err := r.db.WithContext(ctx).Model(&catalog.Listing{}).Count(&totalListings).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&catalog.Listing{}).
		Where("listing_status = ?", catalog.ListingStatusActive).
		Count(&activeListings).Error; err != nil {
		return nil, err
	}

	return &report.SalesTotals{
		TotalRevenue:   ot.TotalRevenue,
		NetProfit:      ot.NetProfit,
		TotalOrders:    ot.TotalOrders,
		TotalReturns:   ot.TotalReturns,
		TotalListings:  totalListings,
		ActiveListings: activeListings,
	}, nil
}

// DailyRevenue returns per-day revenue for the trailing number of days
func (r *GormAnalyticsRepository) DailyRevenue(ctx context.Context, days int) ([]report.DailyRevenue, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	type dailyResult struct {
		Date       time.Time
		Revenue    decimal.Decimal
		OrderCount int64
	}

	var results []dailyResult
	err := r.db.WithContext(ctx).Table("orders").
		Select(`
			DATE(ordered_at) as date,
			COALESCE(SUM(sale_price), 0) as revenue,
			COUNT(*) as order_count
		`).
		Where("ordered_at >= ?", since).
		Where("order_status <> ?", trade.OrderStatusCancelled).
		Group("DATE(ordered_at)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	trend := make([]report.DailyRevenue, len(results))
	for i, res := range results {
		trend[i] = report.DailyRevenue{
			Date:       res.Date,
			Revenue:    res.Revenue,
			OrderCount: res.OrderCount,
		}
	}
	return trend, nil
}

// ProfitByCategory returns accumulated profit grouped by product category
func (r *GormAnalyticsRepository) ProfitByCategory(ctx context.Context) ([]report.CategoryProfit, error) {
	type categoryResult struct {
		Category   string
		Profit     decimal.Decimal
		OrderCount int64
	}

	var results []categoryResult
	err := r.db.WithContext(ctx).Table("orders o").
		Select(`
			COALESCE(NULLIF(p.category, ''), 'uncategorized') as category,
			COALESCE(SUM(o.net_profit), 0) as profit,
			COUNT(*) as order_count
		`).
		Joins("JOIN products p ON p.id = o.product_id").
		Where("o.order_status <> ?", trade.OrderStatusCancelled).
		Group("COALESCE(NULLIF(p.category, ''), 'uncategorized')").
		Order("profit DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	categories := make([]report.CategoryProfit, len(results))
	for i, res := range results {
		categories[i] = report.CategoryProfit{
			Category:   res.Category,
			Profit:     res.Profit,
			OrderCount: res.OrderCount,
		}
	}
	return categories, nil
}

// TopProducts returns the best performing products by profit
func (r *GormAnalyticsRepository) TopProducts(ctx context.Context, limit int) ([]report.ProductPerformance, error) {
	return r.rankedProducts(ctx, limit, "total_profit DESC")
}

// WorstProducts returns the worst performing products by profit
func (r *GormAnalyticsRepository) WorstProducts(ctx context.Context, limit int) ([]report.ProductPerformance, error) {
	return r.rankedProducts(ctx, limit, "total_profit ASC")
}

func (r *GormAnalyticsRepository) rankedProducts(ctx context.Context, limit int, order string) ([]report.ProductPerformance, error) {
	if limit <= 0 {
		limit = 10
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("orders_count > 0").
		Order(order).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}

	ranked := make([]report.ProductPerformance, len(products))
	for i, p := range products {
		ranked[i] = report.ProductPerformance{
			ProductID:   p.ID,
			ProductName: p.Name,
			OrdersCount: p.OrdersCount,
			TotalProfit: p.TotalProfit,
		}
	}
	return ranked, nil
}

// Ensure GormAnalyticsRepository implements AnalyticsRepository
var _ report.AnalyticsRepository = (*GormAnalyticsRepository)(nil)

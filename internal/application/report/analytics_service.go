package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/report"
)

const (
	defaultTrendDays   = 30
	maxTrendDays       = 365
	defaultRankingSize = 5
	maxRankingSize     = 50
)

// AnalyticsService assembles dashboard figures from the analytics read model
type AnalyticsService struct {
	analyticsRepo report.AnalyticsRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analyticsRepo report.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

// Summary returns the lifetime aggregates plus the derived rates.
// Sell-through is orders per listing; return rate is returns per order.
// Both are zero when the denominator is zero.
func (s *AnalyticsService) Summary(ctx context.Context) (*SummaryResponse, error) {
	totals, err := s.analyticsRepo.SalesTotals(ctx)
	if err != nil {
		return nil, err
	}

	sellThrough := decimal.Zero
	if totals.TotalListings > 0 {
		sellThrough = decimal.NewFromInt(totals.TotalOrders).
			Div(decimal.NewFromInt(totals.TotalListings)).
			Round(4)
	}
	returnRate := decimal.Zero
	if totals.TotalOrders > 0 {
		returnRate = decimal.NewFromInt(totals.TotalReturns).
			Div(decimal.NewFromInt(totals.TotalOrders)).
			Round(4)
	}

	return &SummaryResponse{
		TotalRevenue:    totals.TotalRevenue,
		NetProfit:       totals.NetProfit,
		TotalOrders:     totals.TotalOrders,
		TotalReturns:    totals.TotalReturns,
		TotalListings:   totals.TotalListings,
		ActiveListings:  totals.ActiveListings,
		SellThroughRate: sellThrough,
		ReturnRate:      returnRate,
	}, nil
}

// RevenueTrend returns per-day revenue for the trailing number of days
func (s *AnalyticsService) RevenueTrend(ctx context.Context, days int) ([]DailyRevenueResponse, error) {
	if days <= 0 || days > maxTrendDays {
		days = defaultTrendDays
	}

	rows, err := s.analyticsRepo.DailyRevenue(ctx, days)
	if err != nil {
		return nil, err
	}
	return ToDailyRevenueResponses(rows), nil
}

// CategoryBreakdown returns accumulated profit grouped by product category
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context) ([]CategoryProfitResponse, error) {
	rows, err := s.analyticsRepo.ProfitByCategory(ctx)
	if err != nil {
		return nil, err
	}
	return ToCategoryProfitResponses(rows), nil
}

// TopProducts returns the best performing products by accumulated profit
func (s *AnalyticsService) TopProducts(ctx context.Context, limit int) ([]ProductPerformanceResponse, error) {
	rows, err := s.analyticsRepo.TopProducts(ctx, clampRankingSize(limit))
	if err != nil {
		return nil, err
	}
	return ToProductPerformanceResponses(rows), nil
}

// WorstProducts returns the worst performing products by accumulated profit
func (s *AnalyticsService) WorstProducts(ctx context.Context, limit int) ([]ProductPerformanceResponse, error) {
	rows, err := s.analyticsRepo.WorstProducts(ctx, clampRankingSize(limit))
	if err != nil {
		return nil, err
	}
	return ToProductPerformanceResponses(rows), nil
}

func clampRankingSize(limit int) int {
	if limit <= 0 || limit > maxRankingSize {
		return defaultRankingSize
	}
	return limit
}

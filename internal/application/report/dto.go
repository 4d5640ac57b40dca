package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/report"
)

// SummaryResponse is the dashboard summary block
type SummaryResponse struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	TotalOrders     int64           `json:"total_orders"`
	TotalReturns    int64           `json:"total_returns"`
	TotalListings   int64           `json:"total_listings"`
	ActiveListings  int64           `json:"active_listings"`
	SellThroughRate decimal.Decimal `json:"sell_through_rate"`
	ReturnRate      decimal.Decimal `json:"return_rate"`
}

// DailyRevenueResponse is one point on the revenue trend chart
type DailyRevenueResponse struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// CategoryProfitResponse is one slice of the category breakdown
type CategoryProfitResponse struct {
	Category   string          `json:"category"`
	Profit     decimal.Decimal `json:"profit"`
	OrderCount int64           `json:"order_count"`
}

// ProductPerformanceResponse ranks one product by accumulated profit
type ProductPerformanceResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	OrdersCount int             `json:"orders_count"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// ToDailyRevenueResponses converts trend rows, formatting dates as ISO days
func ToDailyRevenueResponses(rows []report.DailyRevenue) []DailyRevenueResponse {
	responses := make([]DailyRevenueResponse, len(rows))
	for i, row := range rows {
		responses[i] = DailyRevenueResponse{
			Date:       row.Date.Format(time.DateOnly),
			Revenue:    row.Revenue,
			OrderCount: row.OrderCount,
		}
	}
	return responses
}

// ToCategoryProfitResponses converts category breakdown rows
func ToCategoryProfitResponses(rows []report.CategoryProfit) []CategoryProfitResponse {
	responses := make([]CategoryProfitResponse, len(rows))
	for i, row := range rows {
		responses[i] = CategoryProfitResponse{
			Category:   row.Category,
			Profit:     row.Profit,
			OrderCount: row.OrderCount,
		}
	}
	return responses
}

// ToProductPerformanceResponses converts product ranking rows
func ToProductPerformanceResponses(rows []report.ProductPerformance) []ProductPerformanceResponse {
	responses := make([]ProductPerformanceResponse, len(rows))
	for i, row := range rows {
		responses[i] = ProductPerformanceResponse{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			OrdersCount: row.OrdersCount,
			TotalProfit: row.TotalProfit,
		}
	}
	return responses
}

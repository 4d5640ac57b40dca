package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	reportapp "github.com/reseller/backoffice/internal/application/report"
)

// AnalyticsHandler handles dashboard analytics endpoints
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *reportapp.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *reportapp.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RegisterRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	analytics.GET("/summary", h.Summary)
	analytics.GET("/revenue-trend", h.RevenueTrend)
	analytics.GET("/categories", h.CategoryBreakdown)
	analytics.GET("/products/top", h.TopProducts)
	analytics.GET("/products/worst", h.WorstProducts)
}

// Summary returns lifetime totals plus sell-through and return rates
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.analyticsService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RevenueTrend returns per-day revenue for the trailing window
func (h *AnalyticsHandler) RevenueTrend(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trend, err := h.analyticsService.RevenueTrend(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trend)
}

// CategoryBreakdown returns accumulated profit per product category
func (h *AnalyticsHandler) CategoryBreakdown(c *gin.Context) {
	breakdown, err := h.analyticsService.CategoryBreakdown(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, breakdown)
}

// TopProducts returns the best performers by accumulated profit
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	products, err := h.analyticsService.TopProducts(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// WorstProducts returns the worst performers by accumulated profit
func (h *AnalyticsHandler) WorstProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	products, err := h.analyticsService.WorstProducts(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

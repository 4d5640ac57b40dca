package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	pricingapp "github.com/reseller/backoffice/internal/application/pricing"
)

// PricingHandler handles auto-pricing rule and competitor price endpoints
type PricingHandler struct {
	BaseHandler
	ruleService      *pricingapp.RuleService
	competitorWindow time.Duration
}

// NewPricingHandler creates a new PricingHandler. competitorWindow bounds
// how far back competitor price listings reach.
func NewPricingHandler(ruleService *pricingapp.RuleService, competitorWindow time.Duration) *PricingHandler {
	return &PricingHandler{
		ruleService:      ruleService,
		competitorWindow: competitorWindow,
	}
}

// RegisterRoutes registers pricing routes
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pricing := rg.Group("/pricing")
	pricing.GET("/products/:id/rule", h.GetRule)
	pricing.PUT("/products/:id/rule", h.UpsertRule)
	pricing.POST("/products/:id/rule/enable", h.EnableRule)
	pricing.POST("/products/:id/rule/disable", h.DisableRule)
	pricing.DELETE("/products/:id/rule", h.DeleteRule)
	pricing.GET("/products/:id/competitors", h.ListCompetitorPrices)
	pricing.POST("/competitors", h.RecordCompetitorPrice)
	pricing.GET("/runs", h.RecentRuns)
	pricing.GET("/runs/latest", h.LatestRun)
}

// GetRule retrieves the pricing rule for a product
func (h *PricingHandler) GetRule(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	rule, err := h.ruleService.GetForProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// UpsertRule creates or updates the pricing rule for a product.
// Omitted fields keep their current (or default) values.
func (h *PricingHandler) UpsertRule(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req pricingapp.UpsertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.ruleService.Upsert(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// EnableRule turns auto-pricing on for a product
func (h *PricingHandler) EnableRule(c *gin.Context) {
	h.setRuleEnabled(c, true)
}

// DisableRule turns auto-pricing off for a product
func (h *PricingHandler) DisableRule(c *gin.Context) {
	h.setRuleEnabled(c, false)
}

func (h *PricingHandler) setRuleEnabled(c *gin.Context, enabled bool) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	rule, err := h.ruleService.SetEnabled(c.Request.Context(), productID, enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// DeleteRule removes the pricing rule for a product
func (h *PricingHandler) DeleteRule(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.ruleService.Delete(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RecordCompetitorPrice records one competitor price observation
func (h *PricingHandler) RecordCompetitorPrice(c *gin.Context) {
	var req pricingapp.RecordCompetitorPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	observation, err := h.ruleService.RecordCompetitorPrice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, observation)
}

// ListCompetitorPrices retrieves recent competitor observations for a product
func (h *PricingHandler) ListCompetitorPrices(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	observations, err := h.ruleService.ListCompetitorPrices(c.Request.Context(), productID, h.competitorWindow)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, observations)
}

// LatestRun retrieves the most recent repricing run
func (h *PricingHandler) LatestRun(c *gin.Context) {
	run, err := h.ruleService.LatestRun(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}

// RecentRuns retrieves recent repricing runs, newest first
func (h *PricingHandler) RecentRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.ruleService.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, runs)
}

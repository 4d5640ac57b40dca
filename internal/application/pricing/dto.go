package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/pricing"
)

// UpsertRuleRequest creates or replaces the auto-pricing rule for a product.
// Omitted guardrails fall back to schema defaults.
type UpsertRuleRequest struct {
	MinMarginPercent   *decimal.Decimal `json:"min_margin_percent"`
	MaxPriceLimit      *decimal.Decimal `json:"max_price_limit"`
	AutoUndercutAmount *decimal.Decimal `json:"auto_undercut_amount"`
	AutoPricingEnabled *bool            `json:"auto_pricing_enabled"`
}

// RuleResponse represents a pricing rule in API responses
type RuleResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product_id"`
	MinMarginPercent   decimal.Decimal `json:"min_margin_percent"`
	MaxPriceLimit      decimal.Decimal `json:"max_price_limit"`
	AutoUndercutAmount decimal.Decimal `json:"auto_undercut_amount"`
	AutoPricingEnabled bool            `json:"auto_pricing_enabled"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// RecordCompetitorPriceRequest records one competitor price observation
type RecordCompetitorPriceRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	CompetitorName string          `json:"competitor_name" binding:"required,min=1,max=255"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	CompetitorURL  string          `json:"competitor_url" binding:"omitempty,url"`
	CheckedAt      *time.Time      `json:"checked_at"`
}

// CompetitorPriceResponse represents an observation in API responses
type CompetitorPriceResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	CompetitorName string          `json:"competitor_name"`
	Price          decimal.Decimal `json:"price"`
	CompetitorURL  string          `json:"competitor_url"`
	CheckedAt      time.Time       `json:"checked_at"`
}

// RunResponse represents an auto-pricing run in API responses
type RunResponse struct {
	ID          uuid.UUID  `json:"id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Status      string     `json:"status"`
	Evaluated   int        `json:"evaluated"`
	Updated     int        `json:"updated"`
	Skipped     int        `json:"skipped"`
	Failed      int        `json:"failed"`
	LastError   string     `json:"last_error,omitempty"`
}

// ToRuleResponse converts a domain PricingRule to RuleResponse
func ToRuleResponse(r *pricing.PricingRule) RuleResponse {
	return RuleResponse{
		ID:                 r.ID,
		ProductID:          r.ProductID,
		MinMarginPercent:   r.MinMarginPercent,
		MaxPriceLimit:      r.MaxPriceLimit,
		AutoUndercutAmount: r.AutoUndercutAmount,
		AutoPricingEnabled: r.AutoPricingEnabled,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Version:            r.Version,
	}
}

// ToCompetitorPriceResponse converts a domain CompetitorPrice to its response
func ToCompetitorPriceResponse(p *pricing.CompetitorPrice) CompetitorPriceResponse {
	return CompetitorPriceResponse{
		ID:             p.ID,
		ProductID:      p.ProductID,
		CompetitorName: p.CompetitorName,
		Price:          p.Price,
		CompetitorURL:  p.CompetitorURL,
		CheckedAt:      p.CheckedAt,
	}
}

// ToCompetitorPriceResponses converts a slice of observations to responses
func ToCompetitorPriceResponses(prices []pricing.CompetitorPrice) []CompetitorPriceResponse {
	responses := make([]CompetitorPriceResponse, len(prices))
	for i := range prices {
		responses[i] = ToCompetitorPriceResponse(&prices[i])
	}
	return responses
}

// ToRunResponse converts a domain RepricingRun to RunResponse
func ToRunResponse(r *pricing.RepricingRun) RunResponse {
	return RunResponse{
		ID:          r.ID,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Status:      string(r.Status),
		Evaluated:   r.Evaluated,
		Updated:     r.Updated,
		Skipped:     r.Skipped,
		Failed:      r.Failed,
		LastError:   r.LastError,
	}
}

// ToRunResponses converts a slice of runs to responses
func ToRunResponses(runs []pricing.RepricingRun) []RunResponse {
	responses := make([]RunResponse, len(runs))
	for i := range runs {
		responses[i] = ToRunResponse(&runs[i])
	}
	return responses
}

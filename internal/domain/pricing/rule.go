package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/shared"
)

var oneHundred = decimal.NewFromInt(100)

// Rule defaults match the schema defaults
var (
	DefaultMinMarginPercent   = decimal.NewFromInt(10)
	DefaultMaxPriceLimit      = decimal.NewFromFloat(999.99)
	DefaultAutoUndercutAmount = decimal.NewFromFloat(0.50)
)

// PricingRule holds the auto-pricing guardrails for a single product.
// At most one rule exists per product.
type PricingRule struct {
	shared.BaseAggregateRoot
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	MinMarginPercent   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:10"`
	MaxPriceLimit      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:999.99"`
	AutoUndercutAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.50"`
	AutoPricingEnabled bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PricingRule) TableName() string {
	return "pricing_rules"
}

// NewPricingRule creates a rule for a product with schema defaults
func NewPricingRule(productID uuid.UUID) (*PricingRule, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Pricing rule requires a product")
	}

	return &PricingRule{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		ProductID:          productID,
		MinMarginPercent:   DefaultMinMarginPercent,
		MaxPriceLimit:      DefaultMaxPriceLimit,
		AutoUndercutAmount: DefaultAutoUndercutAmount,
	}, nil
}

// Update replaces the rule's guardrails
func (r *PricingRule) Update(minMarginPercent, maxPriceLimit, autoUndercutAmount decimal.Decimal, enabled bool) error {
	if minMarginPercent.IsNegative() {
		return shared.NewDomainError("INVALID_MARGIN", "Minimum margin cannot be negative")
	}
	if !maxPriceLimit.IsPositive() {
		return shared.NewDomainError("INVALID_LIMIT", "Maximum price limit must be positive")
	}
	if autoUndercutAmount.IsNegative() {
		return shared.NewDomainError("INVALID_UNDERCUT", "Undercut amount cannot be negative")
	}

	r.MinMarginPercent = minMarginPercent
	r.MaxPriceLimit = maxPriceLimit
	r.AutoUndercutAmount = autoUndercutAmount
	r.AutoPricingEnabled = enabled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Enable turns auto-pricing on for the product
func (r *PricingRule) Enable() {
	r.AutoPricingEnabled = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Disable turns auto-pricing off for the product
func (r *PricingRule) Disable() {
	r.AutoPricingEnabled = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// EvaluationOutcome classifies the result of evaluating a rule
type EvaluationOutcome string

const (
	// OutcomeSkip means no undercut room: the competition is not cheaper
	OutcomeSkip EvaluationOutcome = "skip"
	// OutcomeReject means the candidate violated a guardrail
	OutcomeReject EvaluationOutcome = "reject"
	// OutcomeUpdate means the candidate passed and should be committed
	OutcomeUpdate EvaluationOutcome = "update"
)

// Evaluation is the decision for one product in an auto-pricing run
type Evaluation struct {
	Outcome EvaluationOutcome
	// NewPrice is the unrounded candidate; only meaningful for OutcomeUpdate.
	// Callers round at the point of persistence.
	NewPrice decimal.Decimal
	Reason   string
}

// Evaluate decides whether the product price should move to undercut the
// lowest current competitor price. All comparisons use unrounded values.
func (r *PricingRule) Evaluate(supplierCost, currentPrice, lowestCompetitor decimal.Decimal) Evaluation {
	if lowestCompetitor.GreaterThanOrEqual(currentPrice) {
		return Evaluation{Outcome: OutcomeSkip, Reason: "competition not cheaper than current price"}
	}

	candidate := lowestCompetitor.Sub(r.AutoUndercutAmount)
	floor := supplierCost.Mul(decimal.NewFromInt(1).Add(r.MinMarginPercent.Div(oneHundred)))

	switch {
	case candidate.LessThan(floor):
		return Evaluation{Outcome: OutcomeReject, Reason: "candidate below minimum margin"}
	case candidate.GreaterThan(r.MaxPriceLimit):
		return Evaluation{Outcome: OutcomeReject, Reason: "candidate above maximum price limit"}
	case !candidate.IsPositive():
		return Evaluation{Outcome: OutcomeReject, Reason: "candidate not positive"}
	}

	return Evaluation{Outcome: OutcomeUpdate, NewPrice: candidate}
}

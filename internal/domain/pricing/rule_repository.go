package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reseller/backoffice/internal/domain/shared"
)

// RuleRepository defines the interface for pricing rule persistence
type RuleRepository interface {
	// FindByID finds a rule by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PricingRule, error)

	// FindByProductID finds the rule for a product
	FindByProductID(ctx context.Context, productID uuid.UUID) (*PricingRule, error)

	// FindEnabled finds all rules with auto-pricing enabled
	FindEnabled(ctx context.Context) ([]PricingRule, error)

	// Save creates or updates a rule
	Save(ctx context.Context, rule *PricingRule) error

	// Delete deletes a rule
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts rules matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CompetitorPriceRepository defines the interface for competitor price persistence
type CompetitorPriceRepository interface {
	// Save appends an observation
	Save(ctx context.Context, price *CompetitorPrice) error

	// FindByProductSince finds observations for a product checked at or after
	// the given instant, newest first
	FindByProductSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]CompetitorPrice, error)

	// LowestByProductSince returns the cheapest observation for a product in
	// the window. Returns shared.ErrNotFound when there is none.
	LowestByProductSince(ctx context.Context, productID uuid.UUID, since time.Time) (*CompetitorPrice, error)
}

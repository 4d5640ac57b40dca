package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reseller/backoffice/internal/domain/pricing"
	"github.com/reseller/backoffice/internal/domain/shared"
)

// GormRuleRepository implements pricing.RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindByID finds a rule by its ID
func (r *GormRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	var rule pricing.PricingRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindByProductID finds the rule for a product
func (r *GormRuleRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*pricing.PricingRule, error) {
	var rule pricing.PricingRule
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindEnabled finds all rules with auto-pricing enabled
func (r *GormRuleRepository) FindEnabled(ctx context.Context) ([]pricing.PricingRule, error) {
	var rules []pricing.PricingRule
	if err := r.db.WithContext(ctx).
		Where("auto_pricing_enabled = ?", true).
		Order("created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Save creates or updates a rule
func (r *GormRuleRepository) Save(ctx context.Context, rule *pricing.PricingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete deletes a rule
func (r *GormRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pricing.PricingRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts rules matching the filter
func (r *GormRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&pricing.PricingRule{})

	for key, value := range filter.Filters {
		switch key {
		case "enabled":
			query = query.Where("auto_pricing_enabled = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormRuleRepository implements RuleRepository
var _ pricing.RuleRepository = (*GormRuleRepository)(nil)

// GormCompetitorPriceRepository implements pricing.CompetitorPriceRepository using GORM
type GormCompetitorPriceRepository struct {
	db *gorm.DB
}

// NewGormCompetitorPriceRepository creates a new GormCompetitorPriceRepository
func NewGormCompetitorPriceRepository(db *gorm.DB) *GormCompetitorPriceRepository {
	return &GormCompetitorPriceRepository{db: db}
}

// Save appends an observation
func (r *GormCompetitorPriceRepository) Save(ctx context.Context, price *pricing.CompetitorPrice) error {
	return r.db.WithContext(ctx).Save(price).Error
}

// FindByProductSince finds observations for a product checked at or after
// the given instant, newest first
func (r *GormCompetitorPriceRepository) FindByProductSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]pricing.CompetitorPrice, error) {
	var prices []pricing.CompetitorPrice
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND checked_at >= ?", productID, since).
		Order("checked_at DESC").
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// LowestByProductSince returns the cheapest observation for a product in the window
func (r *GormCompetitorPriceRepository) LowestByProductSince(ctx context.Context, productID uuid.UUID, since time.Time) (*pricing.CompetitorPrice, error) {
	var price pricing.CompetitorPrice
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND checked_at >= ?", productID, since).
		Order("competitor_price ASC").
		First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// Ensure GormCompetitorPriceRepository implements CompetitorPriceRepository
var _ pricing.CompetitorPriceRepository = (*GormCompetitorPriceRepository)(nil)

// GormRunRepository implements pricing.RunRepository using GORM
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Save creates or updates a run record
func (r *GormRunRepository) Save(ctx context.Context, run *pricing.RepricingRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindLatest returns the most recently started run
func (r *GormRunRepository) FindLatest(ctx context.Context) (*pricing.RepricingRun, error) {
	var run pricing.RepricingRun
	if err := r.db.WithContext(ctx).Order("started_at DESC").First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindRecent returns the most recent runs, newest first
func (r *GormRunRepository) FindRecent(ctx context.Context, limit int) ([]pricing.RepricingRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []pricing.RepricingRun
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Ensure GormRunRepository implements RunRepository
var _ pricing.RunRepository = (*GormRunRepository)(nil)

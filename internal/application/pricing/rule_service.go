package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/reseller/backoffice/internal/domain/catalog"
	"github.com/reseller/backoffice/internal/domain/pricing"
	"github.com/reseller/backoffice/internal/domain/shared"
)

// RuleService manages per-product auto-pricing rules and the competitor
// price observations they evaluate against.
type RuleService struct {
	ruleRepo       pricing.RuleRepository
	competitorRepo pricing.CompetitorPriceRepository
	runRepo        pricing.RunRepository
	productRepo    catalog.ProductRepository
}

// NewRuleService creates a new RuleService
func NewRuleService(
	ruleRepo pricing.RuleRepository,
	competitorRepo pricing.CompetitorPriceRepository,
	runRepo pricing.RunRepository,
	productRepo catalog.ProductRepository,
) *RuleService {
	return &RuleService{
		ruleRepo:       ruleRepo,
		competitorRepo: competitorRepo,
		runRepo:        runRepo,
		productRepo:    productRepo,
	}
}

// GetForProduct retrieves the rule for a product
func (s *RuleService) GetForProduct(ctx context.Context, productID uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToRuleResponse(rule)
	return &response, nil
}

// Upsert creates the product's rule if it does not exist, otherwise updates
// it. Omitted guardrails keep their current value on update and take the
// schema default on create.
func (s *RuleService) Upsert(ctx context.Context, productID uuid.UUID, req UpsertRuleRequest) (*RuleResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	rule, err := s.ruleRepo.FindByProductID(ctx, productID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		rule, err = pricing.NewPricingRule(productID)
		if err != nil {
			return nil, err
		}
	}

	minMargin := rule.MinMarginPercent
	maxLimit := rule.MaxPriceLimit
	undercut := rule.AutoUndercutAmount
	enabled := rule.AutoPricingEnabled
	if req.MinMarginPercent != nil {
		minMargin = *req.MinMarginPercent
	}
	if req.MaxPriceLimit != nil {
		maxLimit = *req.MaxPriceLimit
	}
	if req.AutoUndercutAmount != nil {
		undercut = *req.AutoUndercutAmount
	}
	if req.AutoPricingEnabled != nil {
		enabled = *req.AutoPricingEnabled
	}

	if err := rule.Update(minMargin, maxLimit, undercut, enabled); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	response := ToRuleResponse(rule)
	return &response, nil
}

// SetEnabled toggles auto-pricing for a product's rule
func (s *RuleService) SetEnabled(ctx context.Context, productID uuid.UUID, enabled bool) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if enabled {
		rule.Enable()
	} else {
		rule.Disable()
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	response := ToRuleResponse(rule)
	return &response, nil
}

// Delete removes the product's rule
func (s *RuleService) Delete(ctx context.Context, productID uuid.UUID) error {
	rule, err := s.ruleRepo.FindByProductID(ctx, productID)
	if err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, rule.ID)
}

// RecordCompetitorPrice appends a competitor price observation
func (s *RuleService) RecordCompetitorPrice(ctx context.Context, req RecordCompetitorPriceRequest) (*CompetitorPriceResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	checkedAt := time.Time{}
	if req.CheckedAt != nil {
		checkedAt = *req.CheckedAt
	}

	observation, err := pricing.NewCompetitorPrice(req.ProductID, req.CompetitorName, req.Price, req.CompetitorURL, checkedAt)
	if err != nil {
		return nil, err
	}

	if err := s.competitorRepo.Save(ctx, observation); err != nil {
		return nil, err
	}

	response := ToCompetitorPriceResponse(observation)
	return &response, nil
}

// ListCompetitorPrices returns a product's observations within the window
func (s *RuleService) ListCompetitorPrices(ctx context.Context, productID uuid.UUID, window time.Duration) ([]CompetitorPriceResponse, error) {
	since := time.Now().Add(-window)
	prices, err := s.competitorRepo.FindByProductSince(ctx, productID, since)
	if err != nil {
		return nil, err
	}
	return ToCompetitorPriceResponses(prices), nil
}

// LatestRun returns the most recent auto-pricing run
func (s *RuleService) LatestRun(ctx context.Context) (*RunResponse, error) {
	run, err := s.runRepo.FindLatest(ctx)
	if err != nil {
		return nil, err
	}

	response := ToRunResponse(run)
	return &response, nil
}

// RecentRuns returns the most recent auto-pricing runs, newest first
func (s *RuleService) RecentRuns(ctx context.Context, limit int) ([]RunResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.runRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToRunResponses(runs), nil
}

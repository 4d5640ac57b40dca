package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/reseller/backoffice/internal/domain/catalog"
	"github.com/reseller/backoffice/internal/domain/pricing"
	"github.com/reseller/backoffice/internal/domain/shared"
)

// AutoPricingService sweeps every enabled pricing rule and undercuts the
// cheapest recent competitor price within the rule's guardrails. One
// product failing never aborts the sweep; failures are counted on the run
// record and logged.
type AutoPricingService struct {
	ruleRepo       pricing.RuleRepository
	productRepo    catalog.ProductRepository
	listingRepo    catalog.ListingRepository
	competitorRepo pricing.CompetitorPriceRepository
	runRepo        pricing.RunRepository
	window         time.Duration
	logger         *zap.Logger
}

// NewAutoPricingService creates a new AutoPricingService. The window bounds
// how old a competitor observation may be to be considered.
func NewAutoPricingService(
	ruleRepo pricing.RuleRepository,
	productRepo catalog.ProductRepository,
	listingRepo catalog.ListingRepository,
	competitorRepo pricing.CompetitorPriceRepository,
	runRepo pricing.RunRepository,
	window time.Duration,
	logger *zap.Logger,
) *AutoPricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoPricingService{
		ruleRepo:       ruleRepo,
		productRepo:    productRepo,
		listingRepo:    listingRepo,
		competitorRepo: competitorRepo,
		runRepo:        runRepo,
		window:         window,
		logger:         logger,
	}
}

// RepriceAll evaluates every enabled rule once. An error is returned only
// when the sweep itself cannot run; per-product problems are absorbed into
// the run counters.
func (s *AutoPricingService) RepriceAll(ctx context.Context) error {
	rules, err := s.ruleRepo.FindEnabled(ctx)
	if err != nil {
		return fmt.Errorf("loading enabled pricing rules: %w", err)
	}

	run := pricing.NewRepricingRun()
	if err := s.runRepo.Save(ctx, run); err != nil {
		return fmt.Errorf("recording repricing run: %w", err)
	}

	since := time.Now().Add(-s.window)
	var updated, skipped, failed int
	var lastError string

	for i := range rules {
		rule := &rules[i]
		outcome, err := s.repriceOne(ctx, rule, since)
		if err != nil {
			failed++
			lastError = err.Error()
			s.logger.Warn("Repricing failed for product",
				zap.String("product_id", rule.ProductID.String()),
				zap.Error(err),
			)
			continue
		}

		switch outcome {
		case pricing.OutcomeUpdate:
			updated++
		default:
			skipped++
		}
	}

	run.Complete(len(rules), updated, skipped, failed, lastError)
	if err := s.runRepo.Save(ctx, run); err != nil {
		return fmt.Errorf("completing repricing run: %w", err)
	}

	s.logger.Info("Repricing sweep complete",
		zap.Int("evaluated", len(rules)),
		zap.Int("updated", updated),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return nil
}

// repriceOne evaluates a single rule. A missing competitor observation is a
// skip, not an error.
func (s *AutoPricingService) repriceOne(ctx context.Context, rule *pricing.PricingRule, since time.Time) (pricing.EvaluationOutcome, error) {
	product, err := s.productRepo.FindByID(ctx, rule.ProductID)
	if err != nil {
		return "", fmt.Errorf("loading product: %w", err)
	}

	lowest, err := s.competitorRepo.LowestByProductSince(ctx, rule.ProductID, since)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("No recent competitor prices, skipping",
				zap.String("product_id", rule.ProductID.String()),
			)
			return pricing.OutcomeSkip, nil
		}
		return "", fmt.Errorf("loading competitor prices: %w", err)
	}

	evaluation := rule.Evaluate(product.SupplierCost, product.CalculatedSalePrice, lowest.Price)
	if evaluation.Outcome != pricing.OutcomeUpdate {
		s.logger.Debug("Rule evaluation did not produce an update",
			zap.String("product_id", rule.ProductID.String()),
			zap.String("outcome", string(evaluation.Outcome)),
			zap.String("reason", evaluation.Reason),
		)
		return evaluation.Outcome, nil
	}

	if err := product.ApplyAutoPrice(evaluation.NewPrice); err != nil {
		return "", fmt.Errorf("applying new price: %w", err)
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return "", fmt.Errorf("saving product: %w", err)
	}

	if err := s.propagateToListings(ctx, product); err != nil {
		return "", fmt.Errorf("propagating price to listings: %w", err)
	}

	s.logger.Info("Auto-priced product",
		zap.String("product_id", product.ID.String()),
		zap.String("new_price", product.CalculatedSalePrice.String()),
		zap.String("competitor", lowest.CompetitorName),
		zap.String("competitor_price", lowest.Price.String()),
	)

	return pricing.OutcomeUpdate, nil
}

// propagateToListings pushes the committed price to all active listings
func (s *AutoPricingService) propagateToListings(ctx context.Context, product *catalog.Product) error {
	listings, err := s.listingRepo.FindActiveByProductID(ctx, product.ID)
	if err != nil {
		return err
	}

	for i := range listings {
		listing := &listings[i]
		if err := listing.UpdatePrice(product.CalculatedSalePrice); err != nil {
			return err
		}
		if err := s.listingRepo.Save(ctx, listing); err != nil {
			return err
		}
	}
	return nil
}

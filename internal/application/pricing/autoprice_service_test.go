package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reseller/backoffice/internal/domain/catalog"
	"github.com/reseller/backoffice/internal/domain/pricing"
	"github.com/reseller/backoffice/internal/domain/shared"
)

const testWindow = 7 * 24 * time.Hour

type autoPricingFixture struct {
	ruleRepo       *MockRuleRepository
	productRepo    *MockProductRepository
	listingRepo    *MockListingRepository
	competitorRepo *MockCompetitorPriceRepository
	runRepo        *MockRunRepository
	service        *AutoPricingService
}

func newAutoPricingFixture() *autoPricingFixture {
	f := &autoPricingFixture{
		ruleRepo:       new(MockRuleRepository),
		productRepo:    new(MockProductRepository),
		listingRepo:    new(MockListingRepository),
		competitorRepo: new(MockCompetitorPriceRepository),
		runRepo:        new(MockRunRepository),
	}
	f.service = NewAutoPricingService(
		f.ruleRepo, f.productRepo, f.listingRepo, f.competitorRepo, f.runRepo,
		testWindow, zap.NewNop(),
	)
	return f
}

// enabledRule builds a rule with the given guardrails, auto-pricing on.
func enabledRule(t *testing.T, product *catalog.Product, minMargin, maxLimit, undercut decimal.Decimal) *pricing.PricingRule {
	t.Helper()
	rule, err := pricing.NewPricingRule(product.ID)
	require.NoError(t, err)
	require.NoError(t, rule.Update(minMargin, maxLimit, undercut, true))
	return rule
}

func observation(t *testing.T, product *catalog.Product, price decimal.Decimal) *pricing.CompetitorPrice {
	t.Helper()
	obs, err := pricing.NewCompetitorPrice(product.ID, "FastSeller", price, "", time.Now())
	require.NoError(t, err)
	return obs
}

func TestAutoPricingService_RepriceAll(t *testing.T) {
	ctx := context.Background()

	t.Run("undercuts cheapest competitor within guardrails", func(t *testing.T) {
		f := newAutoPricingFixture()

		product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(200))
		require.NoError(t, product.ApplyAutoPrice(decimal.NewFromInt(30)))
		rule := enabledRule(t, product, decimal.NewFromInt(20), decimal.NewFromInt(50), decimal.NewFromFloat(0.50))

		f.ruleRepo.On("FindEnabled", ctx).Return([]pricing.PricingRule{*rule}, nil)
		f.runRepo.On("Save", ctx, mock.AnythingOfType("*pricing.RepricingRun")).Return(nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.competitorRepo.On("LowestByProductSince", ctx, product.ID, mock.AnythingOfType("time.Time")).
			Return(observation(t, product, decimal.NewFromInt(25)), nil)
		f.productRepo.On("Save", ctx, product).Return(nil)

		listing, _ := catalog.NewListing(product.ID, "Vintage Lamp", decimal.NewFromInt(30))
		require.NoError(t, listing.Activate())
		f.listingRepo.On("FindActiveByProductID", ctx, product.ID).Return([]catalog.Listing{*listing}, nil)
		f.listingRepo.On("Save", ctx, mock.MatchedBy(func(l *catalog.Listing) bool {
			return l.Price.Equal(decimal.NewFromFloat(24.50))
		})).Return(nil)

		require.NoError(t, f.service.RepriceAll(ctx))

		// 25 - 0.50 = 24.50, above the 12.00 floor and below the 50 cap
		assert.Equal(t, "24.5", product.CalculatedSalePrice.String())
		f.listingRepo.AssertExpectations(t)
	})

	t.Run("skips when competition is not cheaper", func(t *testing.T) {
		f := newAutoPricingFixture()

		product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(200))
		priceBefore := product.CalculatedSalePrice
		rule := enabledRule(t, product, decimal.NewFromInt(20), decimal.NewFromInt(50), decimal.NewFromFloat(0.50))

		f.ruleRepo.On("FindEnabled", ctx).Return([]pricing.PricingRule{*rule}, nil)
		f.runRepo.On("Save", ctx, mock.AnythingOfType("*pricing.RepricingRun")).Return(nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.competitorRepo.On("LowestByProductSince", ctx, product.ID, mock.AnythingOfType("time.Time")).
			Return(observation(t, product, product.CalculatedSalePrice), nil)

		require.NoError(t, f.service.RepriceAll(ctx))

		assert.True(t, product.CalculatedSalePrice.Equal(priceBefore))
		f.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects candidate below margin floor", func(t *testing.T) {
		f := newAutoPricingFixture()

		// cost 10, min margin 20% -> floor 12.00; competitor 11 -> candidate 10.50
		product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(200))
		require.NoError(t, product.ApplyAutoPrice(decimal.NewFromInt(30)))
		rule := enabledRule(t, product, decimal.NewFromInt(20), decimal.NewFromInt(50), decimal.NewFromFloat(0.50))

		f.ruleRepo.On("FindEnabled", ctx).Return([]pricing.PricingRule{*rule}, nil)
		f.runRepo.On("Save", ctx, mock.AnythingOfType("*pricing.RepricingRun")).Return(nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.competitorRepo.On("LowestByProductSince", ctx, product.ID, mock.AnythingOfType("time.Time")).
			Return(observation(t, product, decimal.NewFromInt(11)), nil)

		require.NoError(t, f.service.RepriceAll(ctx))

		assert.Equal(t, "30", product.CalculatedSalePrice.String())
		f.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("skips products with no recent observations", func(t *testing.T) {
		f := newAutoPricingFixture()

		product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(30))
		rule := enabledRule(t, product, decimal.NewFromInt(20), decimal.NewFromInt(50), decimal.NewFromFloat(0.50))

		f.ruleRepo.On("FindEnabled", ctx).Return([]pricing.PricingRule{*rule}, nil)
		f.runRepo.On("Save", ctx, mock.AnythingOfType("*pricing.RepricingRun")).Return(nil)
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.competitorRepo.On("LowestByProductSince", ctx, product.ID, mock.AnythingOfType("time.Time")).
			Return(nil, shared.ErrNotFound)

		require.NoError(t, f.service.RepriceAll(ctx))

		f.runRepo.AssertCalled(t, "Save", ctx, mock.MatchedBy(func(r *pricing.RepricingRun) bool {
			return r.CompletedAt == nil || (r.Skipped == 1 && r.Updated == 0 && r.Failed == 0)
		}))
	})

	t.Run("one failing product does not abort the sweep", func(t *testing.T) {
		f := newAutoPricingFixture()

		broken, _ := catalog.NewProduct("Broken", decimal.NewFromInt(10), decimal.NewFromInt(30))
		healthy, _ := catalog.NewProduct("Healthy", decimal.NewFromInt(10), decimal.NewFromInt(200))
		require.NoError(t, healthy.ApplyAutoPrice(decimal.NewFromInt(30)))

		brokenRule := enabledRule(t, broken, decimal.NewFromInt(20), decimal.NewFromInt(50), decimal.NewFromFloat(0.50))
		healthyRule := enabledRule(t, healthy, decimal.NewFromInt(20), decimal.NewFromInt(50), decimal.NewFromFloat(0.50))

		f.ruleRepo.On("FindEnabled", ctx).Return([]pricing.PricingRule{*brokenRule, *healthyRule}, nil)
		f.runRepo.On("Save", ctx, mock.AnythingOfType("*pricing.RepricingRun")).Return(nil)

		f.productRepo.On("FindByID", ctx, broken.ID).Return(nil, errors.New("connection reset"))
		f.productRepo.On("FindByID", ctx, healthy.ID).Return(healthy, nil)
		f.competitorRepo.On("LowestByProductSince", ctx, healthy.ID, mock.AnythingOfType("time.Time")).
			Return(observation(t, healthy, decimal.NewFromInt(25)), nil)
		f.productRepo.On("Save", ctx, healthy).Return(nil)
		f.listingRepo.On("FindActiveByProductID", ctx, healthy.ID).Return([]catalog.Listing{}, nil)

		require.NoError(t, f.service.RepriceAll(ctx))

		assert.Equal(t, "24.5", healthy.CalculatedSalePrice.String())
		f.runRepo.AssertCalled(t, "Save", ctx, mock.MatchedBy(func(r *pricing.RepricingRun) bool {
			return r.CompletedAt == nil || (r.Failed == 1 && r.Updated == 1 && r.LastError != "")
		}))
	})

	t.Run("errors when rules cannot be loaded", func(t *testing.T) {
		f := newAutoPricingFixture()
		f.ruleRepo.On("FindEnabled", ctx).Return(nil, errors.New("db down"))

		assert.Error(t, f.service.RepriceAll(ctx))
		f.runRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

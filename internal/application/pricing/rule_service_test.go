package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reseller/backoffice/internal/domain/catalog"
	"github.com/reseller/backoffice/internal/domain/pricing"
	"github.com/reseller/backoffice/internal/domain/shared"
)

type ruleFixture struct {
	ruleRepo       *MockRuleRepository
	competitorRepo *MockCompetitorPriceRepository
	runRepo        *MockRunRepository
	productRepo    *MockProductRepository
	service        *RuleService
}

func newRuleFixture() *ruleFixture {
	f := &ruleFixture{
		ruleRepo:       new(MockRuleRepository),
		competitorRepo: new(MockCompetitorPriceRepository),
		runRepo:        new(MockRunRepository),
		productRepo:    new(MockProductRepository),
	}
	f.service = NewRuleService(f.ruleRepo, f.competitorRepo, f.runRepo, f.productRepo)
	return f
}

func TestRuleService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("creates rule with defaults when none exists", func(t *testing.T) {
		f := newRuleFixture()

		product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(30))
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.ruleRepo.On("FindByProductID", ctx, product.ID).Return(nil, shared.ErrNotFound)
		f.ruleRepo.On("Save", ctx, mock.AnythingOfType("*pricing.PricingRule")).Return(nil)

		enabled := true
		resp, err := f.service.Upsert(ctx, product.ID, UpsertRuleRequest{AutoPricingEnabled: &enabled})

		require.NoError(t, err)
		assert.Equal(t, "10", resp.MinMarginPercent.String())
		assert.Equal(t, "999.99", resp.MaxPriceLimit.String())
		assert.Equal(t, "0.5", resp.AutoUndercutAmount.String())
		assert.True(t, resp.AutoPricingEnabled)
	})

	t.Run("partial update keeps unspecified guardrails", func(t *testing.T) {
		f := newRuleFixture()

		product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(30))
		rule, _ := pricing.NewPricingRule(product.ID)
		require.NoError(t, rule.Update(decimal.NewFromInt(20), decimal.NewFromInt(50), decimal.NewFromFloat(0.50), true))

		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.ruleRepo.On("FindByProductID", ctx, product.ID).Return(rule, nil)
		f.ruleRepo.On("Save", ctx, rule).Return(nil)

		newLimit := decimal.NewFromInt(80)
		resp, err := f.service.Upsert(ctx, product.ID, UpsertRuleRequest{MaxPriceLimit: &newLimit})

		require.NoError(t, err)
		assert.Equal(t, "80", resp.MaxPriceLimit.String())
		assert.Equal(t, "20", resp.MinMarginPercent.String())
		assert.True(t, resp.AutoPricingEnabled)
	})

	t.Run("rejects rule for unknown product", func(t *testing.T) {
		f := newRuleFixture()

		product, _ := catalog.NewProduct("Ghost", decimal.NewFromInt(10), decimal.NewFromInt(30))
		f.productRepo.On("FindByID", ctx, product.ID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Upsert(ctx, product.ID, UpsertRuleRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.ruleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid guardrails", func(t *testing.T) {
		f := newRuleFixture()

		product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(30))
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.ruleRepo.On("FindByProductID", ctx, product.ID).Return(nil, shared.ErrNotFound)

		negative := decimal.NewFromInt(-5)
		_, err := f.service.Upsert(ctx, product.ID, UpsertRuleRequest{MinMarginPercent: &negative})
		assert.Error(t, err)
	})
}

func TestRuleService_SetEnabled(t *testing.T) {
	ctx := context.Background()
	f := newRuleFixture()

	product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(30))
	rule, _ := pricing.NewPricingRule(product.ID)

	f.ruleRepo.On("FindByProductID", ctx, product.ID).Return(rule, nil)
	f.ruleRepo.On("Save", ctx, rule).Return(nil)

	resp, err := f.service.SetEnabled(ctx, product.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.AutoPricingEnabled)

	resp, err = f.service.SetEnabled(ctx, product.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.AutoPricingEnabled)
}

func TestRuleService_RecordCompetitorPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("records observation", func(t *testing.T) {
		f := newRuleFixture()

		product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(30))
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		f.competitorRepo.On("Save", ctx, mock.AnythingOfType("*pricing.CompetitorPrice")).Return(nil)

		resp, err := f.service.RecordCompetitorPrice(ctx, RecordCompetitorPriceRequest{
			ProductID:      product.ID,
			CompetitorName: "FastSeller",
			Price:          decimal.NewFromFloat(19.99),
		})

		require.NoError(t, err)
		assert.Equal(t, "19.99", resp.Price.String())
		assert.False(t, resp.CheckedAt.IsZero())
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		f := newRuleFixture()

		product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(30))
		f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := f.service.RecordCompetitorPrice(ctx, RecordCompetitorPriceRequest{
			ProductID:      product.ID,
			CompetitorName: "FastSeller",
			Price:          decimal.Zero,
		})
		assert.Error(t, err)
	})
}

func TestRuleService_Runs(t *testing.T) {
	ctx := context.Background()
	f := newRuleFixture()

	run := pricing.NewRepricingRun()
	run.Complete(5, 2, 3, 0, "")

	f.runRepo.On("FindLatest", ctx).Return(run, nil)
	f.runRepo.On("FindRecent", ctx, 20).Return([]pricing.RepricingRun{*run}, nil)

	latest, err := f.service.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "completed", latest.Status)
	assert.Equal(t, 5, latest.Evaluated)

	// Out-of-range limit falls back to the default
	recent, err := f.service.RecentRuns(ctx, -1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 2, recent[0].Updated)
}

func TestRuleService_ListCompetitorPrices(t *testing.T) {
	ctx := context.Background()
	f := newRuleFixture()

	product, _ := catalog.NewProduct("Vintage Lamp", decimal.NewFromInt(10), decimal.NewFromInt(30))
	obs, _ := pricing.NewCompetitorPrice(product.ID, "FastSeller", decimal.NewFromFloat(19.99), "", time.Now())

	f.competitorRepo.On("FindByProductSince", ctx, product.ID, mock.AnythingOfType("time.Time")).
		Return([]pricing.CompetitorPrice{*obs}, nil)

	responses, err := f.service.ListCompetitorPrices(ctx, product.ID, 7*24*time.Hour)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "FastSeller", responses[0].CompetitorName)
}

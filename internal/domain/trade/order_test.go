package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("computes net profit", func(t *testing.T) {
		order, err := NewOrder("11-22222-33333",
			decimal.NewFromInt(50),
			decimal.NewFromInt(20),
			decimal.NewFromFloat(6.75),
			decimal.NewFromFloat(4.20),
			time.Now(),
		)
		require.NoError(t, err)

		assert.Equal(t, "19.05", order.NetProfit.String())
		assert.Equal(t, OrderStatusNew, order.Status)
		assert.Nil(t, order.ProductID)
		assert.Nil(t, order.ListingID)
	})

	t.Run("allows negative net profit", func(t *testing.T) {
		order, err := NewOrder("x",
			decimal.NewFromInt(10),
			decimal.NewFromInt(20),
			decimal.Zero,
			decimal.Zero,
			time.Now(),
		)
		require.NoError(t, err)
		assert.Equal(t, "-10", order.NetProfit.String())
	})

	t.Run("defaults ordered time to now", func(t *testing.T) {
		order, err := NewOrder("x", decimal.NewFromInt(10), decimal.Zero, decimal.Zero, decimal.Zero, time.Time{})
		require.NoError(t, err)
		assert.False(t, order.OrderedAt.IsZero())
	})

	t.Run("rejects negative sale price", func(t *testing.T) {
		_, err := NewOrder("x", decimal.NewFromInt(-1), decimal.Zero, decimal.Zero, decimal.Zero, time.Now())
		require.Error(t, err)
	})

	t.Run("rejects negative costs", func(t *testing.T) {
		_, err := NewOrder("x", decimal.NewFromInt(10), decimal.NewFromInt(-1), decimal.Zero, decimal.Zero, time.Now())
		require.Error(t, err)
	})
}

func TestOrderTransitionTo(t *testing.T) {
	newOrder := func(t *testing.T) *Order {
		order, err := NewOrder("x", decimal.NewFromInt(10), decimal.Zero, decimal.Zero, decimal.Zero, time.Now())
		require.NoError(t, err)
		return order
	}

	t.Run("shipped stamps shipped_at once", func(t *testing.T) {
		order := newOrder(t)

		require.NoError(t, order.TransitionTo(OrderStatusShipped))
		require.NotNil(t, order.ShippedAt)
		first := *order.ShippedAt

		require.NoError(t, order.TransitionTo(OrderStatusShipped))
		assert.Equal(t, first, *order.ShippedAt)
	})

	t.Run("delivered stamps delivered_at", func(t *testing.T) {
		order := newOrder(t)

		require.NoError(t, order.TransitionTo(OrderStatusDelivered))
		require.NotNil(t, order.DeliveredAt)
		assert.Equal(t, OrderStatusDelivered, order.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		order := newOrder(t)
		require.Error(t, order.TransitionTo(OrderStatus("lost")))
		assert.Equal(t, OrderStatusNew, order.Status)
	})

	t.Run("returned is tracked", func(t *testing.T) {
		order := newOrder(t)
		require.NoError(t, order.TransitionTo(OrderStatusReturned))
		assert.True(t, order.IsReturned())
	})
}

func TestOrderUpdateCosts(t *testing.T) {
	order, err := NewOrder("x", decimal.NewFromInt(50), decimal.Zero, decimal.Zero, decimal.Zero, time.Now())
	require.NoError(t, err)
	require.Equal(t, "50", order.NetProfit.String())

	require.NoError(t, order.UpdateCosts(decimal.NewFromInt(20), decimal.NewFromFloat(6.75), decimal.Zero))
	assert.Equal(t, "23.25", order.NetProfit.String())

	require.Error(t, order.UpdateCosts(decimal.NewFromInt(-1), decimal.Zero, decimal.Zero))
}

func TestOrderAttach(t *testing.T) {
	order, err := NewOrder("x", decimal.NewFromInt(10), decimal.Zero, decimal.Zero, decimal.Zero, time.Now())
	require.NoError(t, err)

	productID := uuid.New()
	listingID := uuid.New()
	order.AttachProduct(productID)
	order.AttachListing(listingID)

	require.NotNil(t, order.ProductID)
	require.NotNil(t, order.ListingID)
	assert.Equal(t, productID, *order.ProductID)
	assert.Equal(t, listingID, *order.ListingID)
}

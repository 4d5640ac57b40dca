package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListing(t *testing.T) {
	productID := uuid.New()

	t.Run("creates draft listing", func(t *testing.T) {
		listing, err := NewListing(productID, "Wireless Mouse - Black", decimal.NewFromFloat(13.00))
		require.NoError(t, err)
		require.NotNil(t, listing)

		assert.Equal(t, productID, listing.ProductID)
		assert.Equal(t, ListingStatusDraft, listing.Status)
		assert.Nil(t, listing.ListedAt)
		assert.False(t, listing.IsActive())
	})

	t.Run("fails without product", func(t *testing.T) {
		_, err := NewListing(uuid.Nil, "Title", decimal.NewFromInt(10))
		require.Error(t, err)
	})

	t.Run("fails with empty title", func(t *testing.T) {
		_, err := NewListing(productID, "", decimal.NewFromInt(10))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "title cannot be empty")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewListing(productID, "Title", decimal.NewFromInt(-1))
		require.Error(t, err)
	})
}

func TestListingActivate(t *testing.T) {
	t.Run("stamps listed time", func(t *testing.T) {
		listing, err := NewListing(uuid.New(), "Title", decimal.NewFromInt(10))
		require.NoError(t, err)

		require.NoError(t, listing.Activate())
		assert.Equal(t, ListingStatusActive, listing.Status)
		require.NotNil(t, listing.ListedAt)
		assert.True(t, listing.IsActive())
	})

	t.Run("rejects double activation", func(t *testing.T) {
		listing, err := NewListing(uuid.New(), "Title", decimal.NewFromInt(10))
		require.NoError(t, err)

		require.NoError(t, listing.Activate())
		require.Error(t, listing.Activate())
	})
}

func TestListingEnd(t *testing.T) {
	listing, err := NewListing(uuid.New(), "Title", decimal.NewFromInt(10))
	require.NoError(t, err)

	require.NoError(t, listing.Activate())
	require.NoError(t, listing.End())
	assert.Equal(t, ListingStatusEnded, listing.Status)
	require.Error(t, listing.End())
}

func TestListingUpdatePrice(t *testing.T) {
	listing, err := NewListing(uuid.New(), "Title", decimal.NewFromInt(10))
	require.NoError(t, err)

	require.NoError(t, listing.UpdatePrice(decimal.NewFromFloat(24.505)))
	assert.Equal(t, "24.51", listing.Price.String())

	require.Error(t, listing.UpdatePrice(decimal.NewFromInt(-1)))
}

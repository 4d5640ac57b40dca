package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/reseller/backoffice/internal/domain/shared"
)

// ListingRepository defines the interface for listing persistence
type ListingRepository interface {
	// FindByID finds a listing by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// FindByMarketplaceItemID finds a listing by the marketplace's item ID
	FindByMarketplaceItemID(ctx context.Context, itemID string) (*Listing, error)

	// FindByProductID finds all listings for a product
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]Listing, error)

	// FindActiveByProductID finds the active listings for a product
	FindActiveByProductID(ctx context.Context, productID uuid.UUID) ([]Listing, error)

	// FindAll finds all listings matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Listing, error)

	// Save creates or updates a listing
	Save(ctx context.Context, listing *Listing) error

	// Delete deletes a listing
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts listings matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/reseller/backoffice/internal/domain/catalog"
	"github.com/reseller/backoffice/internal/domain/shared"
)

// ListingService handles marketplace listing operations
type ListingService struct {
	listingRepo catalog.ListingRepository
	productRepo catalog.ProductRepository
}

// NewListingService creates a new ListingService
func NewListingService(listingRepo catalog.ListingRepository, productRepo catalog.ProductRepository) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		productRepo: productRepo,
	}
}

// Create creates a draft listing for a product. When no price is given the
// listing takes the product's current calculated sale price.
func (s *ListingService) Create(ctx context.Context, req CreateListingRequest) (*ListingResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	price := product.CalculatedSalePrice
	if req.Price != nil {
		price = *req.Price
	}

	listing, err := catalog.NewListing(req.ProductID, req.Title, price)
	if err != nil {
		return nil, err
	}

	listing.Description = req.Description
	listing.MarketplaceCategoryID = req.MarketplaceCategoryID
	if req.MarketplaceItemID != "" {
		listing.SetMarketplaceItemID(req.MarketplaceItemID)
	}

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// GetByID retrieves a listing by ID
func (s *ListingService) GetByID(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// List retrieves listings with filtering and pagination
func (s *ListingService) List(ctx context.Context, filter ListingListFilter) ([]ListingResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	listings, err := s.listingRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.listingRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToListingResponses(listings), total, nil
}

// ListByProduct retrieves all listings for one product
func (s *ListingService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ListingResponse, error) {
	listings, err := s.listingRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToListingResponses(listings), nil
}

// Update updates a listing's content and price
func (s *ListingService) Update(ctx context.Context, listingID uuid.UUID, req UpdateListingRequest) (*ListingResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := listing.UpdateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Price != nil {
		if err := listing.UpdatePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.MarketplaceItemID != nil {
		listing.SetMarketplaceItemID(*req.MarketplaceItemID)
	}
	if req.MarketplaceCategoryID != nil {
		listing.MarketplaceCategoryID = *req.MarketplaceCategoryID
	}

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// Activate publishes a listing to the marketplace
func (s *ListingService) Activate(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if err := listing.Activate(); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// End takes a listing off the marketplace
func (s *ListingService) End(ctx context.Context, listingID uuid.UUID) (*ListingResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if err := listing.End(); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// Delete deletes a listing
func (s *ListingService) Delete(ctx context.Context, listingID uuid.UUID) error {
	return s.listingRepo.Delete(ctx, listingID)
}

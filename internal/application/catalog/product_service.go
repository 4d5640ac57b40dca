package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/reseller/backoffice/internal/domain/catalog"
	"github.com/reseller/backoffice/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	listingRepo catalog.ListingRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, listingRepo catalog.ListingRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		listingRepo: listingRepo,
	}
}

// Create creates a new product. The sale price is derived from supplier
// cost and target markup; the markup defaults to 30% when omitted.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.SKU != "" {
		if err := s.ensureSKUAvailable(ctx, req.SKU, uuid.Nil); err != nil {
			return nil, err
		}
	}

	markup := catalog.DefaultTargetMarkupPercent
	if req.TargetMarkupPercent != nil {
		markup = *req.TargetMarkupPercent
	}

	product, err := catalog.NewProduct(req.Name, req.SupplierCost, markup)
	if err != nil {
		return nil, err
	}

	if req.SKU != "" {
		if err := product.SetSKU(req.SKU); err != nil {
			return nil, err
		}
	}
	if req.Category != "" || req.Description != "" || req.SupplierURL != "" || req.Notes != "" {
		product.SetDetails(req.Category, req.Description, req.SupplierURL, req.Notes)
	}
	if len(req.ImageURLs) > 0 {
		product.SetImageURLs(req.ImageURLs)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by supplier SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
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

	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.MinCost != nil {
		domainFilter.Filters["min_cost"] = *filter.MinCost
	}
	if filter.MaxCost != nil {
		domainFilter.Filters["max_cost"] = *filter.MaxCost
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates a product. Cost and markup changes rederive the sale
// price, and the new price is propagated to the product's active listings.
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	priceBefore := product.CalculatedSalePrice

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.SKU != nil {
		if *req.SKU != "" {
			if err := s.ensureSKUAvailable(ctx, *req.SKU, productID); err != nil {
				return nil, err
			}
		}
		if err := product.SetSKU(*req.SKU); err != nil {
			return nil, err
		}
	}

	if req.SupplierCost != nil {
		if err := product.UpdateSupplierCost(*req.SupplierCost); err != nil {
			return nil, err
		}
	}
	if req.TargetMarkupPercent != nil {
		if err := product.UpdateTargetMarkup(*req.TargetMarkupPercent); err != nil {
			return nil, err
		}
	}

	if req.Category != nil || req.Description != nil || req.SupplierURL != nil || req.Notes != nil {
		category := product.Category
		description := product.Description
		supplierURL := product.SupplierURL
		notes := product.Notes
		if req.Category != nil {
			category = *req.Category
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.SupplierURL != nil {
			supplierURL = *req.SupplierURL
		}
		if req.Notes != nil {
			notes = *req.Notes
		}
		product.SetDetails(category, description, supplierURL, notes)
	}

	if req.ImageURLs != nil {
		product.SetImageURLs(req.ImageURLs)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if !product.CalculatedSalePrice.Equal(priceBefore) {
		if err := s.propagatePrice(ctx, product); err != nil {
			return nil, err
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product. Its listings cascade at the database level
// and past orders keep a null product reference.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	return s.productRepo.Delete(ctx, productID)
}

// propagatePrice pushes the product's current sale price to its active listings
func (s *ProductService) propagatePrice(ctx context.Context, product *catalog.Product) error {
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

// ensureSKUAvailable rejects a SKU already used by a different product
func (s *ProductService) ensureSKUAvailable(ctx context.Context, sku string, selfID uuid.UUID) error {
	existing, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}
	return nil
}

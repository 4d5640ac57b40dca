package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name                string           `json:"name" binding:"required,min=1,max=255"`
	SKU                 string           `json:"sku" binding:"max=100"`
	SupplierCost        decimal.Decimal  `json:"supplier_cost"`
	TargetMarkupPercent *decimal.Decimal `json:"target_markup_percent"`
	Category            string           `json:"category" binding:"max=100"`
	Description         string           `json:"description" binding:"max=5000"`
	ImageURLs           []string         `json:"image_urls"`
	SupplierURL         string           `json:"supplier_url" binding:"omitempty,url"`
	Notes               string           `json:"notes"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name                *string          `json:"name" binding:"omitempty,min=1,max=255"`
	SKU                 *string          `json:"sku" binding:"omitempty,max=100"`
	SupplierCost        *decimal.Decimal `json:"supplier_cost"`
	TargetMarkupPercent *decimal.Decimal `json:"target_markup_percent"`
	Category            *string          `json:"category" binding:"omitempty,max=100"`
	Description         *string          `json:"description" binding:"omitempty,max=5000"`
	ImageURLs           []string         `json:"image_urls"`
	SupplierURL         *string          `json:"supplier_url" binding:"omitempty,url"`
	Notes               *string          `json:"notes"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	SKU                 *string         `json:"sku"`
	SupplierCost        decimal.Decimal `json:"supplier_cost"`
	TargetMarkupPercent decimal.Decimal `json:"target_markup_percent"`
	CalculatedSalePrice decimal.Decimal `json:"calculated_sale_price"`
	ProfitMargin        decimal.Decimal `json:"profit_margin"`
	Category            string          `json:"category"`
	Description         string          `json:"description"`
	ImageURLs           []string        `json:"image_urls"`
	SupplierURL         string          `json:"supplier_url"`
	OrdersCount         int             `json:"orders_count"`
	ReturnsCount        int             `json:"returns_count"`
	TotalProfit         decimal.Decimal `json:"total_profit"`
	Notes               string          `json:"notes"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string   `form:"search"`
	Category string   `form:"category"`
	MinCost  *float64 `form:"min_cost"`
	MaxCost  *float64 `form:"max_cost"`
	Page     int      `form:"page" binding:"omitempty,min=1"`
	PageSize int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string   `form:"order_by"`
	OrderDir string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateListingRequest represents a request to create a marketplace listing
type CreateListingRequest struct {
	ProductID             uuid.UUID        `json:"product_id" binding:"required"`
	Title                 string           `json:"title" binding:"required,min=1,max=255"`
	Description           string           `json:"description" binding:"max=5000"`
	Price                 *decimal.Decimal `json:"price"`
	MarketplaceItemID     string           `json:"marketplace_item_id" binding:"max=100"`
	MarketplaceCategoryID string           `json:"marketplace_category_id" binding:"max=50"`
}

// UpdateListingRequest represents a request to update a listing
type UpdateListingRequest struct {
	Title                 *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Description           *string          `json:"description" binding:"omitempty,max=5000"`
	Price                 *decimal.Decimal `json:"price"`
	MarketplaceItemID     *string          `json:"marketplace_item_id" binding:"omitempty,max=100"`
	MarketplaceCategoryID *string          `json:"marketplace_category_id" binding:"omitempty,max=50"`
}

// ListingResponse represents a listing in API responses
type ListingResponse struct {
	ID                    uuid.UUID       `json:"id"`
	ProductID             uuid.UUID       `json:"product_id"`
	MarketplaceItemID     string          `json:"marketplace_item_id"`
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	Price                 decimal.Decimal `json:"price"`
	Status                string          `json:"status"`
	MarketplaceCategoryID string          `json:"marketplace_category_id"`
	ListedAt              *time.Time      `json:"listed_at"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Version               int             `json:"version"`
}

// ListingListFilter represents filter options for the listing list
type ListingListFilter struct {
	ProductID *uuid.UUID `form:"product_id"`
	Status    string     `form:"status" binding:"omitempty,oneof=draft active ended"`
	Search    string     `form:"search"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		SKU:                 p.SKU,
		SupplierCost:        p.SupplierCost,
		TargetMarkupPercent: p.TargetMarkupPercent,
		CalculatedSalePrice: p.CalculatedSalePrice,
		ProfitMargin:        p.ProfitMargin(),
		Category:            p.Category,
		Description:         p.Description,
		ImageURLs:           p.ImageURLs,
		SupplierURL:         p.SupplierURL,
		OrdersCount:         p.OrdersCount,
		ReturnsCount:        p.ReturnsCount,
		TotalProfit:         p.TotalProfit,
		Notes:               p.Notes,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Version:             p.Version,
	}
}

// ToProductResponses converts a slice of domain Products to responses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToListingResponse converts a domain Listing to ListingResponse
func ToListingResponse(l *catalog.Listing) ListingResponse {
	return ListingResponse{
		ID:                    l.ID,
		ProductID:             l.ProductID,
		MarketplaceItemID:     l.MarketplaceItemID,
		Title:                 l.Title,
		Description:           l.Description,
		Price:                 l.Price,
		Status:                string(l.Status),
		MarketplaceCategoryID: l.MarketplaceCategoryID,
		ListedAt:              l.ListedAt,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
		Version:               l.Version,
	}
}

// ToListingResponses converts a slice of domain Listings to responses
func ToListingResponses(listings []catalog.Listing) []ListingResponse {
	responses := make([]ListingResponse, len(listings))
	for i := range listings {
		responses[i] = ToListingResponse(&listings[i])
	}
	return responses
}

package catalog

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/shared"
)

var oneHundred = decimal.NewFromInt(100)

// DefaultTargetMarkupPercent matches the schema default for new products
var DefaultTargetMarkupPercent = decimal.NewFromInt(30)

// Product represents a sourced product in the reseller catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.BaseAggregateRoot
	Name                string          `gorm:"column:product_name;type:varchar(255);not null"`
	SKU                 *string         `gorm:"type:varchar(100);uniqueIndex"`
	SupplierCost        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TargetMarkupPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:30"`
	CalculatedSalePrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Category            string          `gorm:"type:varchar(100)"`
	Description         string          `gorm:"type:text"`
	ImageURLs           pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	SupplierURL         string          `gorm:"column:supplier_url;type:text"`
	OrdersCount         int             `gorm:"not null;default:0"`
	ReturnsCount        int             `gorm:"not null;default:0"`
	TotalProfit         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Notes               string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product and derives its sale price from
// the supplier cost and target markup.
func NewProduct(name string, supplierCost, targetMarkupPercent decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if supplierCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Supplier cost cannot be negative")
	}
	if targetMarkupPercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MARKUP", "Target markup cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Name:                name,
		SupplierCost:        supplierCost,
		TargetMarkupPercent: targetMarkupPercent,
		TotalProfit:         decimal.Zero,
	}
	product.RecalculatePrice()

	return product, nil
}

// RecalculatePrice derives the sale price from supplier cost and target markup:
// cost * (1 + markup/100), rounded to 2 decimal places.
func (p *Product) RecalculatePrice() {
	multiplier := decimal.NewFromInt(1).Add(p.TargetMarkupPercent.Div(oneHundred))
	p.CalculatedSalePrice = p.SupplierCost.Mul(multiplier).Round(2)
}

// UpdateSupplierCost sets a new supplier cost and rederives the sale price
// using the stored markup.
func (p *Product) UpdateSupplierCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Supplier cost cannot be negative")
	}

	p.SupplierCost = cost
	p.RecalculatePrice()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdateTargetMarkup sets a new target markup and rederives the sale price
// using the stored supplier cost.
func (p *Product) UpdateTargetMarkup(markupPercent decimal.Decimal) error {
	if markupPercent.IsNegative() {
		return shared.NewDomainError("INVALID_MARKUP", "Target markup cannot be negative")
	}

	p.TargetMarkupPercent = markupPercent
	p.RecalculatePrice()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ApplyAutoPrice overrides the derived sale price with an auto-pricing result.
// The candidate must already have passed the rule's guardrails.
func (p *Product) ApplyAutoPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Auto price must be positive")
	}

	p.CalculatedSalePrice = price.Round(2)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Rename updates the product name
func (p *Product) Rename(name string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetSKU sets the supplier SKU. An empty SKU clears it.
func (p *Product) SetSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if len(sku) > 100 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}

	if sku == "" {
		p.SKU = nil
	} else {
		p.SKU = &sku
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDetails updates the descriptive fields
func (p *Product) SetDetails(category, description, supplierURL, notes string) {
	p.Category = category
	p.Description = description
	p.SupplierURL = supplierURL
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetImageURLs replaces the stored image URLs
func (p *Product) SetImageURLs(urls []string) {
	p.ImageURLs = urls
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// MinimumPrice returns the lowest acceptable sale price for the given
// margin percentage: cost * (1 + minMargin/100). The result is not rounded;
// callers compare against unrounded candidates.
func (p *Product) MinimumPrice(minMarginPercent decimal.Decimal) decimal.Decimal {
	multiplier := decimal.NewFromInt(1).Add(minMarginPercent.Div(oneHundred))
	return p.SupplierCost.Mul(multiplier)
}

// ProfitMargin returns the current margin percentage over supplier cost.
// Returns 0 if the supplier cost is zero.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.SupplierCost.IsZero() {
		return decimal.Zero
	}
	profit := p.CalculatedSalePrice.Sub(p.SupplierCost)
	return profit.Div(p.SupplierCost).Mul(oneHundred)
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}

package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/shared"
)

// ListingStatus represents the lifecycle state of a marketplace listing
type ListingStatus string

const (
	ListingStatusDraft  ListingStatus = "draft"
	ListingStatusActive ListingStatus = "active"
	ListingStatusEnded  ListingStatus = "ended"
)

// Listing represents a marketplace listing for a catalog product
type Listing struct {
	shared.BaseAggregateRoot
	ProductID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	MarketplaceItemID     string          `gorm:"column:marketplace_item_id;type:varchar(100);index"`
	Title                 string          `gorm:"column:listing_title;type:varchar(255);not null"`
	Description           string          `gorm:"column:listing_description;type:text"`
	Price                 decimal.Decimal `gorm:"column:listing_price;type:decimal(10,2);not null;default:0"`
	Status                ListingStatus   `gorm:"column:listing_status;type:varchar(20);not null;default:'draft'"`
	MarketplaceCategoryID string          `gorm:"column:marketplace_category_id;type:varchar(50)"`
	ListedAt              *time.Time      `gorm:"column:listed_at"`
}

// TableName returns the table name for GORM
func (Listing) TableName() string {
	return "listings"
}

// NewListing creates a new draft listing for a product
func NewListing(productID uuid.UUID, title string, price decimal.Decimal) (*Listing, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Listing requires a product")
	}
	if err := validateListingTitle(title); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Listing price cannot be negative")
	}

	return &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Title:             title,
		Price:             price,
		Status:            ListingStatusDraft,
	}, nil
}

// Activate publishes the listing and stamps the listed time
func (l *Listing) Activate() error {
	if l.Status == ListingStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Listing is already active")
	}

	now := time.Now()
	l.Status = ListingStatusActive
	l.ListedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()

	return nil
}

// End takes the listing off the marketplace
func (l *Listing) End() error {
	if l.Status == ListingStatusEnded {
		return shared.NewDomainError("ALREADY_ENDED", "Listing is already ended")
	}

	l.Status = ListingStatusEnded
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// UpdateTitle updates the listing title
func (l *Listing) UpdateTitle(title string) error {
	if err := validateListingTitle(title); err != nil {
		return err
	}

	l.Title = title
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// UpdatePrice sets a new listing price
func (l *Listing) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Listing price cannot be negative")
	}

	l.Price = price.Round(2)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetMarketplaceItemID records the marketplace's identifier for this listing
func (l *Listing) SetMarketplaceItemID(itemID string) {
	l.MarketplaceItemID = strings.TrimSpace(itemID)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsActive returns true if the listing is live on the marketplace
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

// validateListingTitle validates the listing title
func validateListingTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Listing title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Listing title cannot exceed 255 characters")
	}
	return nil
}

package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/shared"
)

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusReturned  OrderStatus = "returned"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusNew, OrderStatusShipped, OrderStatusDelivered, OrderStatusReturned, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a marketplace sale. Product and listing references are
// nullable: an order survives deletion of the product it was matched to,
// and webhook orders may not match any listing at all.
type Order struct {
	shared.BaseAggregateRoot
	ProductID          *uuid.UUID      `gorm:"type:uuid;index"`
	ListingID          *uuid.UUID      `gorm:"type:uuid;index"`
	MarketplaceOrderID string          `gorm:"column:marketplace_order_id;type:varchar(100);index"`
	SalePrice          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	SupplierCost       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MarketplaceFees    decimal.Decimal `gorm:"column:marketplace_fees;type:decimal(10,2);not null;default:0"`
	ShippingCost       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	NetProfit          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	BuyerName          string          `gorm:"type:varchar(255)"`
	ShippingAddress    string          `gorm:"type:text"`
	TrackingNumber     string          `gorm:"type:varchar(100)"`
	Status             OrderStatus     `gorm:"column:order_status;type:varchar(20);not null;default:'new'"`
	OrderedAt          time.Time       `gorm:"not null"`
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order and computes its net profit:
// sale - supplier cost - fees - shipping, rounded to 2 decimal places.
func NewOrder(marketplaceOrderID string, salePrice, supplierCost, marketplaceFees, shippingCost decimal.Decimal, orderedAt time.Time) (*Order, error) {
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if supplierCost.IsNegative() || marketplaceFees.IsNegative() || shippingCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Costs cannot be negative")
	}
	if orderedAt.IsZero() {
		orderedAt = time.Now()
	}

	order := &Order{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		MarketplaceOrderID: strings.TrimSpace(marketplaceOrderID),
		SalePrice:          salePrice,
		SupplierCost:       supplierCost,
		MarketplaceFees:    marketplaceFees,
		ShippingCost:       shippingCost,
		Status:             OrderStatusNew,
		OrderedAt:          orderedAt,
	}
	order.recomputeNetProfit()

	return order, nil
}

func (o *Order) recomputeNetProfit() {
	o.NetProfit = o.SalePrice.
		Sub(o.SupplierCost).
		Sub(o.MarketplaceFees).
		Sub(o.ShippingCost).
		Round(2)
}

// AttachProduct links the order to the catalog product it sold
func (o *Order) AttachProduct(productID uuid.UUID) {
	o.ProductID = &productID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// AttachListing links the order to the marketplace listing it came from
func (o *Order) AttachListing(listingID uuid.UUID) {
	o.ListingID = &listingID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// SetBuyer records buyer details from the marketplace
func (o *Order) SetBuyer(name, shippingAddress string) {
	o.BuyerName = name
	o.ShippingAddress = shippingAddress
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// UpdateCosts replaces the cost components and recomputes net profit
func (o *Order) UpdateCosts(supplierCost, marketplaceFees, shippingCost decimal.Decimal) error {
	if supplierCost.IsNegative() || marketplaceFees.IsNegative() || shippingCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Costs cannot be negative")
	}

	o.SupplierCost = supplierCost
	o.MarketplaceFees = marketplaceFees
	o.ShippingCost = shippingCost
	o.recomputeNetProfit()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// TransitionTo moves the order to a new status, stamping fulfillment
// timestamps on the shipped and delivered transitions.
func (o *Order) TransitionTo(status OrderStatus) error {
	if !ValidOrderStatus(status) {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	now := time.Now()
	switch status {
	case OrderStatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case OrderStatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}

	o.Status = status
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// SetTrackingNumber records the carrier tracking number
func (o *Order) SetTrackingNumber(tracking string) {
	o.TrackingNumber = strings.TrimSpace(tracking)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// IsReturned reports whether the order was returned
func (o *Order) IsReturned() bool {
	return o.Status == OrderStatusReturned
}

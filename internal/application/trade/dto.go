package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/trade"
)

// CreateOrderRequest represents a manually entered order
type CreateOrderRequest struct {
	MarketplaceOrderID string           `json:"marketplace_order_id" binding:"max=100"`
	ProductID          *uuid.UUID       `json:"product_id"`
	ListingID          *uuid.UUID       `json:"listing_id"`
	SalePrice          decimal.Decimal  `json:"sale_price"`
	SupplierCost       *decimal.Decimal `json:"supplier_cost"`
	MarketplaceFees    *decimal.Decimal `json:"marketplace_fees"`
	ShippingCost       *decimal.Decimal `json:"shipping_cost"`
	BuyerName          string           `json:"buyer_name" binding:"max=255"`
	ShippingAddress    string           `json:"shipping_address"`
	OrderedAt          *time.Time       `json:"ordered_at"`
}

// UpdateOrderStatusRequest moves an order through its fulfillment lifecycle
type UpdateOrderStatusRequest struct {
	Status         string  `json:"status" binding:"required,oneof=new shipped delivered returned cancelled"`
	TrackingNumber *string `json:"tracking_number" binding:"omitempty,max=100"`
}

// UpdateOrderCostsRequest corrects the cost components of an order
type UpdateOrderCostsRequest struct {
	SupplierCost    decimal.Decimal `json:"supplier_cost"`
	MarketplaceFees decimal.Decimal `json:"marketplace_fees"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          *uuid.UUID      `json:"product_id"`
	ListingID          *uuid.UUID      `json:"listing_id"`
	MarketplaceOrderID string          `json:"marketplace_order_id"`
	SalePrice          decimal.Decimal `json:"sale_price"`
	SupplierCost       decimal.Decimal `json:"supplier_cost"`
	MarketplaceFees    decimal.Decimal `json:"marketplace_fees"`
	ShippingCost       decimal.Decimal `json:"shipping_cost"`
	NetProfit          decimal.Decimal `json:"net_profit"`
	BuyerName          string          `json:"buyer_name"`
	ShippingAddress    string          `json:"shipping_address"`
	TrackingNumber     string          `json:"tracking_number"`
	Status             string          `json:"status"`
	OrderedAt          time.Time       `json:"ordered_at"`
	ShippedAt          *time.Time      `json:"shipped_at"`
	DeliveredAt        *time.Time      `json:"delivered_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status        string     `form:"status" binding:"omitempty,oneof=new shipped delivered returned cancelled"`
	ProductID     *uuid.UUID `form:"product_id"`
	OrderedAfter  *time.Time `form:"ordered_after" time_format:"2006-01-02"`
	OrderedBefore *time.Time `form:"ordered_before" time_format:"2006-01-02"`
	Search        string     `form:"search"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	return OrderResponse{
		ID:                 o.ID,
		ProductID:          o.ProductID,
		ListingID:          o.ListingID,
		MarketplaceOrderID: o.MarketplaceOrderID,
		SalePrice:          o.SalePrice,
		SupplierCost:       o.SupplierCost,
		MarketplaceFees:    o.MarketplaceFees,
		ShippingCost:       o.ShippingCost,
		NetProfit:          o.NetProfit,
		BuyerName:          o.BuyerName,
		ShippingAddress:    o.ShippingAddress,
		TrackingNumber:     o.TrackingNumber,
		Status:             string(o.Status),
		OrderedAt:          o.OrderedAt,
		ShippedAt:          o.ShippedAt,
		DeliveredAt:        o.DeliveredAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		Version:            o.Version,
	}
}

// ToOrderResponses converts a slice of domain Orders to responses
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

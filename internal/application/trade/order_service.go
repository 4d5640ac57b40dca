package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reseller/backoffice/internal/domain/catalog"
	"github.com/reseller/backoffice/internal/domain/shared"
	"github.com/reseller/backoffice/internal/domain/trade"
)

// OrderService handles order management operations
type OrderService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, productRepo catalog.ProductRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// Create records a manually entered order. When a product is attached and
// no supplier cost is given, the cost is taken from the product, and the
// product's sale statistics are bumped.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	supplierCost := decimal.Zero
	var product *catalog.Product
	if req.ProductID != nil {
		var err error
		product, err = s.productRepo.FindByID(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		supplierCost = product.SupplierCost
	}
	if req.SupplierCost != nil {
		supplierCost = *req.SupplierCost
	}

	fees := decimal.Zero
	if req.MarketplaceFees != nil {
		fees = *req.MarketplaceFees
	}
	shipping := decimal.Zero
	if req.ShippingCost != nil {
		shipping = *req.ShippingCost
	}
	orderedAt := time.Time{}
	if req.OrderedAt != nil {
		orderedAt = *req.OrderedAt
	}

	order, err := trade.NewOrder(req.MarketplaceOrderID, req.SalePrice, supplierCost, fees, shipping, orderedAt)
	if err != nil {
		return nil, err
	}

	if req.ProductID != nil {
		order.AttachProduct(*req.ProductID)
	}
	if req.ListingID != nil {
		order.AttachListing(*req.ListingID)
	}
	if req.BuyerName != "" || req.ShippingAddress != "" {
		order.SetBuyer(req.BuyerName, req.ShippingAddress)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if product != nil {
		if err := s.productRepo.IncrementSaleStats(ctx, product.ID, order.NetProfit); err != nil {
			return nil, err
		}
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
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

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.OrderedAfter != nil {
		domainFilter.Filters["ordered_after"] = *filter.OrderedAfter
	}
	if filter.OrderedBefore != nil {
		domainFilter.Filters["ordered_before"] = *filter.OrderedBefore
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// UpdateStatus moves an order through its lifecycle. A transition to
// returned bumps the matched product's return counter.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	wasReturned := order.IsReturned()

	if err := order.TransitionTo(trade.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if req.TrackingNumber != nil {
		order.SetTrackingNumber(*req.TrackingNumber)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if order.IsReturned() && !wasReturned && order.ProductID != nil {
		if err := s.productRepo.IncrementReturnStats(ctx, *order.ProductID); err != nil {
			return nil, err
		}
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateCosts corrects the cost components of an order and recomputes
// its net profit.
func (s *OrderService) UpdateCosts(ctx context.Context, orderID uuid.UUID, req UpdateOrderCostsRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateCosts(req.SupplierCost, req.MarketplaceFees, req.ShippingCost); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete deletes an order
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	return s.orderRepo.Delete(ctx, orderID)
}

package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/reseller/backoffice/internal/domain/catalog"
	"github.com/reseller/backoffice/internal/domain/shared"
	"github.com/reseller/backoffice/internal/domain/trade"
	"github.com/reseller/backoffice/internal/infrastructure/config"
	"github.com/reseller/backoffice/internal/infrastructure/marketplace"
)

// Ingest result statuses
const (
	IngestStatusCreated      = "created"
	IngestStatusDuplicate    = "duplicate"
	IngestStatusAcknowledged = "acknowledged"
)

// IngestResult is the outcome of processing one webhook delivery. OrderID
// echoes the marketplace's own order identifier, which is the only ID the
// sender knows; RecordID is the stored row when one exists.
type IngestResult struct {
	Status   string     `json:"status"`
	OrderID  string     `json:"order_id,omitempty"`
	RecordID *uuid.UUID `json:"-"`
}

// OrderIngestService normalizes marketplace order webhooks into orders.
// Line items are attributed to listings by marketplace item ID; which match
// wins when several line items resolve is decided by the configured match
// policy. Fees and net profit are computed from the configured fee schedule.
type OrderIngestService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	listingRepo catalog.ListingRepository
	dedup       shared.IdempotencyStore
	cfg         config.MarketplaceConfig
	logger      *zap.Logger
}

// NewOrderIngestService creates a new OrderIngestService
func NewOrderIngestService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	listingRepo catalog.ListingRepository,
	dedup shared.IdempotencyStore,
	cfg config.MarketplaceConfig,
	logger *zap.Logger,
) *OrderIngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderIngestService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		listingRepo: listingRepo,
		dedup:       dedup,
		cfg:         cfg,
		logger:      logger,
	}
}

// Ingest processes one raw webhook body. Administrative topics are
// acknowledged without creating anything; duplicate deliveries and
// already-known orders short-circuit; everything else becomes an order
// with status "new".
func (s *OrderIngestService) Ingest(ctx context.Context, body []byte) (*IngestResult, error) {
	notification, err := marketplace.ParseNotification(body)
	if err != nil {
		if errors.Is(err, marketplace.ErrNoOrderData) {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", "Notification contains no order data")
		}
		return nil, shared.NewDomainError("INVALID_PAYLOAD", err.Error())
	}

	if notification.IsAccountDeletion() {
		s.logger.Info("Acknowledged account deletion notification",
			zap.String("notification_id", notification.NotificationID),
		)
		return &IngestResult{Status: IngestStatusAcknowledged}, nil
	}

	incoming := notification.Order

	// Delivery-level dedup flags marketplace redeliveries of the same
	// notification. The flag alone is not trusted: the key is set before
	// the save, so a delivery whose save failed is still marked.
	dedupKey := notification.NotificationID
	if dedupKey == "" {
		dedupKey = incoming.MarketplaceOrderID
	}
	replayed := false
	isNew, err := s.dedup.MarkProcessed(ctx, dedupKey, s.cfg.WebhookDedupTTL)
	if err != nil {
		// The store being down is not a reason to drop an order; the
		// order-level check below still prevents duplicates.
		s.logger.Warn("Webhook dedup store unavailable", zap.Error(err))
	} else if !isNew {
		replayed = true
	}

	existing, err := s.orderRepo.FindByMarketplaceOrderID(ctx, incoming.MarketplaceOrderID)
	if err == nil {
		s.logger.Info("Skipping duplicate webhook delivery",
			zap.String("dedup_key", dedupKey),
			zap.Bool("redelivery", replayed),
		)
		return &IngestResult{
			Status:   IngestStatusDuplicate,
			OrderID:  existing.MarketplaceOrderID,
			RecordID: &existing.ID,
		}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing order: %w", err)
	}
	if replayed {
		// The key was set by an earlier attempt that never stored the
		// order. Marketplace retries are finite, so process it now
		// instead of dropping the order for the rest of the TTL.
		s.logger.Warn("Delivery marked processed without a stored order, reprocessing",
			zap.String("dedup_key", dedupKey),
		)
	}

	listing, product := s.matchListing(ctx, incoming.LineItems)

	supplierCost := decimal.Zero
	if product != nil {
		supplierCost = product.SupplierCost
	}
	fees := s.computeFees(incoming.Total)

	order, err := trade.NewOrder(incoming.MarketplaceOrderID, incoming.Total, supplierCost, fees, decimal.Zero, time.Now())
	if err != nil {
		return nil, err
	}
	if product != nil {
		order.AttachProduct(product.ID)
	}
	if listing != nil {
		order.AttachListing(listing.ID)
	}
	if incoming.BuyerName != "" || incoming.ShippingAddress != "" {
		order.SetBuyer(incoming.BuyerName, incoming.ShippingAddress)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("saving order: %w", err)
	}

	if product != nil {
		if err := s.productRepo.IncrementSaleStats(ctx, product.ID, order.NetProfit); err != nil {
			return nil, fmt.Errorf("updating product sale stats: %w", err)
		}
	}

	s.logger.Info("Ingested marketplace order",
		zap.String("marketplace_order_id", order.MarketplaceOrderID),
		zap.String("net_profit", order.NetProfit.String()),
		zap.Bool("matched_product", product != nil),
	)

	return &IngestResult{
		Status:   IngestStatusCreated,
		OrderID:  order.MarketplaceOrderID,
		RecordID: &order.ID,
	}, nil
}

// matchListing resolves line items to a listing and its product. With the
// "last" policy the final matching line item wins; with "first" the search
// stops at the first match. Lookup failures on individual items are logged
// and do not fail the ingest.
func (s *OrderIngestService) matchListing(ctx context.Context, items []marketplace.LineItem) (*catalog.Listing, *catalog.Product) {
	var matched *catalog.Listing
	for _, item := range items {
		if item.ItemID == "" {
			continue
		}
		listing, err := s.listingRepo.FindByMarketplaceItemID(ctx, item.ItemID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("Listing lookup failed for line item",
					zap.String("item_id", item.ItemID),
					zap.Error(err),
				)
			}
			continue
		}
		matched = listing
		if s.cfg.MatchPolicy == "first" {
			break
		}
	}

	if matched == nil {
		return nil, nil
	}

	product, err := s.productRepo.FindByID(ctx, matched.ProductID)
	if err != nil {
		s.logger.Warn("Matched listing has no loadable product",
			zap.String("listing_id", matched.ID.String()),
			zap.Error(err),
		)
		return matched, nil
	}
	return matched, product
}

// computeFees applies the configured fee schedule: total * percent + fixed.
func (s *OrderIngestService) computeFees(total decimal.Decimal) decimal.Decimal {
	percent := decimal.NewFromFloat(s.cfg.FeePercent)
	fixed := decimal.NewFromFloat(s.cfg.FeeFixed)
	return total.Mul(percent).Add(fixed).Round(2)
}

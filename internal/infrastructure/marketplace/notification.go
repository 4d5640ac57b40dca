// Package marketplace parses inbound marketplace webhook notifications.
//
// Marketplace payloads are not stable: the same logical field arrives under
// different names depending on notification version and channel, and order
// data is sometimes nested under a "resource" envelope. This package
// normalizes those shapes into one structure the ingestion service can use.
package marketplace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TopicAccountDeletion is sent by the marketplace when a buyer account is
// deleted. It carries no order data and only needs to be acknowledged.
const TopicAccountDeletion = "MARKETPLACE_ACCOUNT_DELETION"

// ErrNoOrderData indicates the payload carried neither order fields nor a
// resource envelope containing them.
var ErrNoOrderData = errors.New("notification contains no order data")

// LineItem is a single purchased item within an order notification.
type LineItem struct {
	ItemID string
	Title  string
	Price  decimal.Decimal
}

// OrderNotification is the normalized order payload.
type OrderNotification struct {
	MarketplaceOrderID string
	BuyerName          string
	ShippingAddress    string
	LineItems          []LineItem
	// Total is the sum of line item prices.
	Total decimal.Decimal
}

// Notification is a parsed webhook delivery. Order is nil for
// administrative topics such as account deletion.
type Notification struct {
	Topic          string
	NotificationID string
	Order          *OrderNotification
}

// IsAccountDeletion reports whether this delivery only needs acknowledgment.
func (n *Notification) IsAccountDeletion() bool {
	return n.Topic == TopicAccountDeletion
}

// ParseNotification decodes a raw webhook body into a Notification.
//
// Topic and notification ID are read from the payload root or its metadata
// envelope. For order topics the order fields are read from the root or
// from the "resource" envelope; ErrNoOrderData is returned when neither
// carries an order identifier.
func ParseNotification(raw []byte) (*Notification, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed notification body: %w", err)
	}

	notification := &Notification{
		Topic:          lookupString(payload, "topic"),
		NotificationID: lookupString(payload, "notificationId", "notification_id", "eventId"),
	}

	if metadata, ok := payload["metadata"].(map[string]any); ok {
		if notification.Topic == "" {
			notification.Topic = lookupString(metadata, "topic")
		}
		if notification.NotificationID == "" {
			notification.NotificationID = lookupString(metadata, "notificationId", "notification_id")
		}
	}

	if notification.IsAccountDeletion() {
		return notification, nil
	}

	order, err := parseOrder(payload)
	if err != nil {
		return nil, err
	}
	notification.Order = order

	return notification, nil
}

func parseOrder(payload map[string]any) (*OrderNotification, error) {
	source := payload
	orderID := lookupString(source, "orderId", "order_id")
	if orderID == "" {
		resource, ok := payload["resource"].(map[string]any)
		if !ok {
			return nil, ErrNoOrderData
		}
		source = resource
		orderID = lookupString(source, "orderId", "order_id")
		if orderID == "" {
			return nil, ErrNoOrderData
		}
	}

	order := &OrderNotification{
		MarketplaceOrderID: orderID,
		BuyerName:          parseBuyerName(source),
		ShippingAddress:    parseShippingAddress(source),
		Total:              decimal.Zero,
	}

	items, ok := source["lineItems"].([]any)
	if !ok {
		if items, ok = source["line_items"].([]any); !ok {
			items = nil
		}
	}
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		line := LineItem{
			ItemID: lookupString(item, "legacyItemId", "itemId", "item_id"),
			Title:  lookupString(item, "title"),
			Price:  lookupAmount(item, "total", "price"),
		}
		order.LineItems = append(order.LineItems, line)
		order.Total = order.Total.Add(line.Price)
	}

	return order, nil
}

// parseBuyerName resolves the buyer display name from its known locations,
// most specific first.
func parseBuyerName(source map[string]any) string {
	if buyer, ok := source["buyer"].(map[string]any); ok {
		if username := lookupString(buyer, "username"); username != "" {
			return username
		}
	}
	if name := lookupString(source, "buyerName", "buyer_name"); name != "" {
		return name
	}
	if shipTo := shipToEnvelope(source); shipTo != nil {
		return lookupString(shipTo, "fullName")
	}
	return ""
}

// parseShippingAddress flattens the contact address of the first fulfillment
// instruction into a single line.
func parseShippingAddress(source map[string]any) string {
	shipTo := shipToEnvelope(source)
	if shipTo == nil {
		return ""
	}
	address, ok := shipTo["contactAddress"].(map[string]any)
	if !ok {
		return ""
	}

	parts := make([]string, 0, 6)
	for _, key := range []string{"addressLine1", "addressLine2", "city", "stateOrProvince", "postalCode", "countryCode"} {
		if value := lookupString(address, key); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, ", ")
}

// shipToEnvelope digs out fulfillmentStartInstructions[0].shippingStep.shipTo.
func shipToEnvelope(source map[string]any) map[string]any {
	instructions, ok := source["fulfillmentStartInstructions"].([]any)
	if !ok || len(instructions) == 0 {
		return nil
	}
	first, ok := instructions[0].(map[string]any)
	if !ok {
		return nil
	}
	step, ok := first["shippingStep"].(map[string]any)
	if !ok {
		return nil
	}
	shipTo, ok := step["shipTo"].(map[string]any)
	if !ok {
		return nil
	}
	return shipTo
}

// lookupString returns the first present key coerced to a string. Numeric
// identifiers are rendered without losing precision.
func lookupString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch value := m[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		case json.Number:
			return value.String()
		}
	}
	return ""
}

// lookupAmount returns the first present key parsed as a decimal amount.
// Amounts arrive either as a bare value ("price": "12.34") or as a money
// object ("total": {"value": "12.34", "currency": "USD"}).
func lookupAmount(m map[string]any, keys ...string) decimal.Decimal {
	for _, key := range keys {
		value, exists := m[key]
		if !exists {
			continue
		}
		if money, ok := value.(map[string]any); ok {
			value = money["value"]
		}
		if amount, ok := parseAmount(value); ok {
			return amount
		}
	}
	return decimal.Zero
}

func parseAmount(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case string:
		amount, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, false
		}
		return amount, true
	case json.Number:
		amount, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, false
		}
		return amount, true
	default:
		return decimal.Zero, false
	}
}

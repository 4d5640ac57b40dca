package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	tradeapp "github.com/reseller/backoffice/internal/application/trade"
)

// maxWebhookBody bounds marketplace notification payloads (1 MiB)
const maxWebhookBody = 1 << 20

// WebhookHandler receives marketplace order notifications. Unlike the
// management API, responses use the flat shape the marketplace expects
// rather than the standard envelope.
type WebhookHandler struct {
	BaseHandler
	ingestService *tradeapp.OrderIngestService
	logger        *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(ingestService *tradeapp.OrderIngestService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/orders", h.ReceiveOrderNotification)
}

// ReceiveOrderNotification handles one marketplace notification delivery.
// Malformed payloads get a 400 so the marketplace stops retrying them;
// transient failures get a 500 so it retries later.
func (h *WebhookHandler) ReceiveOrderNotification(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "unreadable body"})
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), body)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

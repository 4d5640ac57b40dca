package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reseller/backoffice/internal/infrastructure/scheduler"
	"github.com/reseller/backoffice/internal/interfaces/http/dto"
)

// RepricingControl is what the system endpoints need from the scheduler
type RepricingControl interface {
	TriggerManualRun() error
	GetStatus() map[string]any
}

// SystemHandler handles health and scheduler administration endpoints
type SystemHandler struct {
	BaseHandler
	control   RepricingControl
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(control RepricingControl) *SystemHandler {
	return &SystemHandler{
		control:   control,
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	system := rg.Group("/system")
	system.GET("/repricing", h.RepricingStatus)
	system.POST("/repricing/run", h.TriggerRepricing)
}

// Health reports service liveness
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// RepricingStatus reports the repricing scheduler's current state
func (h *SystemHandler) RepricingStatus(c *gin.Context) {
	h.Success(c, h.control.GetStatus())
}

// TriggerRepricing starts an immediate repricing sweep. The sweep runs in
// the background; 202 means it was accepted, not that it finished.
func (h *SystemHandler) TriggerRepricing(c *gin.Context) {
	err := h.control.TriggerManualRun()
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"status": "started"}))
	case errors.Is(err, scheduler.ErrRunInProgress):
		h.Error(c, http.StatusConflict, dto.ErrCodeConflict, "A repricing run is already in progress")
	case errors.Is(err, scheduler.ErrSchedulerNotRunning):
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "Repricing scheduler is not running")
	default:
		h.HandleError(c, err)
	}
}

package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/reseller/backoffice/internal/application/catalog"
)

// ListingHandler handles marketplace listing API endpoints
type ListingHandler struct {
	BaseHandler
	listingService *catalogapp.ListingService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingService *catalogapp.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// RegisterRoutes registers listing routes
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	listings := rg.Group("/listings")
	listings.POST("", h.Create)
	listings.GET("", h.List)
	listings.GET("/:id", h.GetByID)
	listings.PUT("/:id", h.Update)
	listings.POST("/:id/activate", h.Activate)
	listings.POST("/:id/end", h.End)
	listings.DELETE("/:id", h.Delete)
}

// Create drafts a new listing. The price defaults to the product's
// calculated sale price when not given.
func (h *ListingHandler) Create(c *gin.Context) {
	var req catalogapp.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, listing)
}

// GetByID retrieves a listing by ID
func (h *ListingHandler) GetByID(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	listing, err := h.listingService.GetByID(c.Request.Context(), listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}

// List retrieves listings with filtering and pagination
func (h *ListingHandler) List(c *gin.Context) {
	var filter catalogapp.ListingListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	listings, total, err := h.listingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, listings, total, page, pageSize)
}

// Update modifies a listing
func (h *ListingHandler) Update(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req catalogapp.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	listing, err := h.listingService.Update(c.Request.Context(), listingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}

// Activate publishes a listing on the marketplace
func (h *ListingHandler) Activate(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	listing, err := h.listingService.Activate(c.Request.Context(), listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}

// End takes a listing off the marketplace
func (h *ListingHandler) End(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	listing, err := h.listingService.End(c.Request.Context(), listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}

// Delete removes a listing
func (h *ListingHandler) Delete(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	if err := h.listingService.Delete(c.Request.Context(), listingID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	"net/http"

	"github.com/bizorder/backend/internal/application/orders"
	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/interfaces/http/dto"
	"github.com/bizorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RequestHandler exposes order request operations
type RequestHandler struct {
	service *orders.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(service *orders.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// RegisterRoutes registers request routes
func (h *RequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/requests")
	requests.POST("", h.Create)
	requests.POST("/from-cart", h.RaiseFromCart)
	requests.GET("", h.List)
	requests.GET("/:id", h.Get)
	requests.POST("/:id/items", h.AddItem)
	requests.PATCH("/:id/items/:item_id", h.UpdateItemQuantity)
	requests.DELETE("/:id/items/:item_id", h.RemoveItem)

	resolve := requests.Group("")
	resolve.Use(middleware.RequireRole(
		identity.RoleRootAdmin.String(), identity.RoleAdmin.String()))
	resolve.POST("/:id/approve", h.Approve)
	resolve.POST("/:id/reject", h.Reject)
}

type createRequestBody struct {
	Remark string `json:"remark"`
}

// Create opens an empty pending request for the authenticated account
func (h *RequestHandler) Create(c *gin.Context) {
	var body createRequestBody
	if !bindJSON(c, &body) {
		return
	}

	envelope, err := h.service.CreateRequest(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetAccountID(c), body.Remark)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toRequestDTO(envelope)))
}

// RaiseFromCart turns the authenticated account's cart into a priced request
func (h *RequestHandler) RaiseFromCart(c *gin.Context) {
	var body createRequestBody
	if !bindJSON(c, &body) {
		return
	}

	envelope, err := h.service.RaiseFromCart(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetAccountID(c), body.Remark)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toRequestDTO(envelope)))
}

// List lists the organization's requests, optionally filtered by status
func (h *RequestHandler) List(c *gin.Context) {
	var status *ordering.RequestStatus
	if raw := c.Query("status"); raw != "" {
		s := ordering.RequestStatus(raw)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_INPUT", "Unknown request status"))
			return
		}
		status = &s
	}

	envelopes, err := h.service.ListRequests(c.Request.Context(),
		middleware.GetOrganizationID(c), status)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]requestDTO, 0, len(envelopes))
	for _, e := range envelopes {
		out = append(out, toRequestDTO(e))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// Get fetches a single request with its line items
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	envelope, err := h.service.GetRequest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toRequestDTO(envelope)))
}

type addItemBody struct {
	CatalogItemID string `json:"catalog_item_id" binding:"required,uuid"`
	Quantity      int64  `json:"quantity" binding:"required,gt=0"`
}

// AddItem attaches a catalog item to a pending request
func (h *RequestHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var body addItemBody
	if !bindJSON(c, &body) {
		return
	}

	envelope, err := h.service.AddLineItem(c.Request.Context(), id,
		mustParseUUID(body.CatalogItemID), body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toRequestDTO(envelope)))
}

type updateQuantityBody struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// UpdateItemQuantity changes a line item's quantity on a pending request
func (h *RequestHandler) UpdateItemQuantity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	var body updateQuantityBody
	if !bindJSON(c, &body) {
		return
	}

	envelope, err := h.service.UpdateLineItemQuantity(c.Request.Context(), id, itemID, body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toRequestDTO(envelope)))
}

// RemoveItem detaches a line item from a pending request
func (h *RequestHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	envelope, err := h.service.RemoveLineItem(c.Request.Context(), id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toRequestDTO(envelope)))
}

// Approve resolves a pending request and derives its order
func (h *RequestHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toOrderDTO(order)))
}

// Reject resolves a pending request without producing an order
func (h *RequestHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	envelope, err := h.service.Reject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toRequestDTO(envelope)))
}

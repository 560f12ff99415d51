package handler

import (
	"net/http"

	"github.com/bizorder/backend/internal/application/orders"
	"github.com/bizorder/backend/internal/interfaces/http/dto"
	"github.com/bizorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CartHandler exposes the authenticated account's cart
type CartHandler struct {
	service *orders.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service *orders.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	cart.GET("", h.Get)
	cart.POST("/items", h.AddItem)
	cart.DELETE("/items/:catalog_item_id", h.RemoveItem)
	cart.DELETE("", h.Clear)
}

// Get fetches the account's cart, creating an empty one on first use
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.service.GetCart(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetAccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toCartDTO(cart)))
}

// AddItem adds a catalog item to the cart, merging quantities on repeat adds
func (h *CartHandler) AddItem(c *gin.Context) {
	var body addItemBody
	if !bindJSON(c, &body) {
		return
	}

	cart, err := h.service.AddItem(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetAccountID(c),
		mustParseUUID(body.CatalogItemID), body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toCartDTO(cart)))
}

// RemoveItem removes a catalog item from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	catalogItemID, ok := parseIDParam(c, "catalog_item_id")
	if !ok {
		return
	}

	cart, err := h.service.RemoveItem(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetAccountID(c), catalogItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toCartDTO(cart)))
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetAccountID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}

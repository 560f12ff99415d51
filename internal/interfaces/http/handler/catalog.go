package handler

import (
	"net/http"

	catalogapp "github.com/bizorder/backend/internal/application/catalog"
	"github.com/bizorder/backend/internal/interfaces/http/dto"
	"github.com/bizorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes read access to the catalog
type CatalogHandler struct {
	service *catalogapp.BrowseService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *catalogapp.BrowseService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	catalog.GET("/items", h.ListItems)
	catalog.GET("/items/:id", h.GetItem)
	catalog.GET("/categories", h.ListCategories)
	catalog.GET("/categories/:id/items", h.ListItemsByCategory)
}

// ListItems lists the organization's catalog items.
// Pass ?all=true to include deactivated items.
func (h *CatalogHandler) ListItems(c *gin.Context) {
	activeOnly := c.Query("all") != "true"

	items, err := h.service.ListItems(c.Request.Context(),
		middleware.GetOrganizationID(c), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]catalogItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toCatalogItemDTO(item))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// GetItem fetches a single catalog item
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toCatalogItemDTO(item)))
}

// ListCategories lists the organization's category tree
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	nodes, err := h.service.ListCategories(c.Request.Context(), middleware.GetOrganizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]categoryDTO, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, toCategoryDTO(node))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// ListItemsByCategory lists the items under one category node
func (h *CatalogHandler) ListItemsByCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.service.ListItemsByCategory(c.Request.Context(),
		middleware.GetOrganizationID(c), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]catalogItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toCatalogItemDTO(item))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

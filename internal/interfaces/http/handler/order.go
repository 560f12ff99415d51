package handler

import (
	"context"
	"net/http"

	"github.com/bizorder/backend/internal/application/orders"
	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/interfaces/http/dto"
	"github.com/bizorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler exposes order read and lifecycle operations
type OrderHandler struct {
	service *orders.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *orders.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ordersGroup := rg.Group("/orders")
	ordersGroup.GET("", h.List)
	ordersGroup.GET("/:id", h.Get)

	transitions := ordersGroup.Group("")
	transitions.Use(middleware.RequireRole(
		identity.RoleRootAdmin.String(), identity.RoleAdmin.String()))
	transitions.POST("/:id/process", h.transitionHandler(h.service.StartProcessing))
	transitions.POST("/:id/complete", h.transitionHandler(h.service.Complete))
	transitions.POST("/:id/cancel", h.transitionHandler(h.service.Cancel))
	transitions.POST("/:id/refund", h.transitionHandler(h.service.Refund))
}

// List lists the organization's orders, optionally filtered by status
func (h *OrderHandler) List(c *gin.Context) {
	var status *ordering.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := ordering.OrderStatus(raw)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_INPUT", "Unknown order status"))
			return
		}
		status = &s
	}

	list, err := h.service.ListOrders(c.Request.Context(), middleware.GetOrganizationID(c), status)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]orderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderDTO(o))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// Get fetches a single order with its line items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toOrderDTO(order)))
}

type orderTransition func(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error)

func (h *OrderHandler) transitionHandler(fn orderTransition) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		order, err := fn(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(toOrderDTO(order)))
	}
}

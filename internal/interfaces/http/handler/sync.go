package handler

import (
	"net/http"

	"github.com/bizorder/backend/internal/application/reconcile"
	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/infrastructure/feed"
	"github.com/bizorder/backend/internal/interfaces/http/dto"
	"github.com/bizorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SyncHandler exposes the reconciliation engine: reference-code resync from
// the configured feed, dataset batch load, and on-demand total repair.
// All routes are admin-gated.
type SyncHandler struct {
	engine *reconcile.Engine
	source feed.Source
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(engine *reconcile.Engine, source feed.Source) *SyncHandler {
	return &SyncHandler{engine: engine, source: source}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	sync.Use(middleware.RequireRole(
		identity.RoleRootAdmin.String(), identity.RoleAdmin.String()))
	sync.POST("/reference-codes", h.SyncReferenceCodes)
	sync.POST("/dataset", h.LoadDataset)
	sync.POST("/envelopes/:id/recompute", h.RecomputeTotal)
}

// SyncReferenceCodes fetches the reference feed and resyncs the stored set.
// The change detector decides whether anything is written.
func (h *SyncHandler) SyncReferenceCodes(c *gin.Context) {
	report, err := h.engine.SyncFromFeed(c.Request.Context(), h.source)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// LoadDataset parses the request body as a dataset bundle and runs the
// dependency-ordered load
func (h *SyncHandler) LoadDataset(c *gin.Context) {
	bundle, err := reconcile.ParseBundle(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.engine.LoadDataset(c.Request.Context(), bundle)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

type recomputeResponse struct {
	EnvelopeID string `json:"envelope_id"`
	Kind       string `json:"kind"`
	Total      int64  `json:"total"`
}

// RecomputeTotal re-derives one envelope's total from its current line items.
// kind selects the parent table: "request" (default) or "order".
func (h *SyncHandler) RecomputeTotal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	kind := reconcile.EnvelopeRequest
	switch c.DefaultQuery("kind", "request") {
	case "request":
	case "order":
		kind = reconcile.EnvelopeOrder
	default:
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_INPUT", "kind must be request or order"))
		return
	}

	total, err := h.engine.RecomputeEnvelopeTotal(c.Request.Context(), kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(recomputeResponse{
		EnvelopeID: id.String(),
		Kind:       string(kind),
		Total:      total,
	}))
}

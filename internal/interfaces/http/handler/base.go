package handler

import (
	"errors"
	"net/http"

	"github.com/bizorder/backend/internal/application/reconcile"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/infrastructure/cache"
	"github.com/bizorder/backend/internal/infrastructure/feed"
	"github.com/bizorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError translates application and domain errors into HTTP responses
func respondError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	var missingRef *reconcile.MissingReferenceError
	if errors.As(err, &missingRef) {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponse("MISSING_REFERENCE", missingRef.Error()))
		return
	}

	var dupRef *reconcile.DuplicateReferenceError
	if errors.As(err, &dupRef) {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponse("DUPLICATE_REFERENCE", dupRef.Error()))
		return
	}

	var bundleErr *reconcile.BundleValidationError
	if errors.As(err, &bundleErr) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("VALIDATION_ERROR", bundleErr.Error()))
		return
	}

	if feed.IsMalformedRow(err) || errors.Is(err, feed.ErrEmptyFeed) || errors.Is(err, feed.ErrMissingHeader) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("MALFORMED_FEED", err.Error()))
		return
	}

	switch {
	case errors.Is(err, cache.ErrLockHeld):
		c.JSON(http.StatusConflict,
			dto.NewErrorResponse("SYNC_IN_PROGRESS", "A reconciliation run is already in progress"))
	case errors.Is(err, reconcile.ErrUnitTimeout):
		c.JSON(http.StatusGatewayTimeout,
			dto.NewErrorResponse("SYNC_TIMEOUT", "The unit of work exceeded its time bound and was rolled back"))
	default:
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse("INTERNAL_ERROR", "An internal error occurred"))
	}
}

// parseIDParam parses a UUID path parameter, responding with 400 on failure
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse("INVALID_INPUT", "Invalid "+name+" parameter"))
		return uuid.Nil, false
	}
	return id, true
}

// mustParseUUID parses a UUID string already validated by request binding
func mustParseUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

// bindJSON binds the request body, responding with 400 on failure
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_INPUT", err.Error()))
		return false
	}
	return true
}

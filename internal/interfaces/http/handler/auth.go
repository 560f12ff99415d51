package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/infrastructure/auth"
	"github.com/bizorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountFinder looks up accounts for authentication
type AccountFinder interface {
	FindByEmail(ctx context.Context, organizationID uuid.UUID, email string) (*identity.Account, error)
}

// AuthHandler issues tokens for account credentials
type AuthHandler struct {
	accounts AccountFinder
	jwt      *auth.JWTService
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts AccountFinder, jwt *auth.JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwt: jwt, logger: logger}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

type loginBody struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	AccountID uuid.UUID `json:"account_id"`
	Role      string    `json:"role"`
}

// Login authenticates an account and returns a bearer token.
// Unknown accounts and wrong passwords produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginBody
	if !bindJSON(c, &body) {
		return
	}

	account, err := h.accounts.FindByEmail(c.Request.Context(),
		mustParseUUID(body.OrganizationID), body.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.rejectLogin(c, body.Email, "unknown account")
			return
		}
		respondError(c, err)
		return
	}

	if !account.CheckPassword(body.Password) {
		h.rejectLogin(c, body.Email, "password mismatch")
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		AccountID: account.ID,
		Role:      account.Role.String(),
	}))
}

func (h *AuthHandler) rejectLogin(c *gin.Context, email, reason string) {
	h.logger.Warn("login rejected",
		zap.String("email", email),
		zap.String("reason", reason))
	c.JSON(http.StatusUnauthorized,
		dto.NewErrorResponse("INVALID_CREDENTIALS", "Invalid email or password"))
}

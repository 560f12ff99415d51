package middleware

import (
	"net/http"
	"strings"

	"github.com/bizorder/backend/internal/infrastructure/auth"
	"github.com/bizorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey         = "jwt_claims"
	JWTAccountIDKey      = "jwt_account_id"
	JWTOrganizationIDKey = "jwt_organization_id"
	JWTRoleKey           = "jwt_role"
	AuthHeaderKey        = "Authorization"
	BearerPrefix         = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "missing bearer token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, "token validation failed")
			return
		}

		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			abortUnauthorized(c, cfg, auth.ErrInvalidClaims, "malformed account id claim")
			return
		}
		organizationID, err := uuid.Parse(claims.OrganizationID)
		if err != nil {
			abortUnauthorized(c, cfg, auth.ErrInvalidClaims, "malformed organization id claim")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTAccountIDKey, accountID)
		c.Set(JWTOrganizationIDKey, organizationID)
		c.Set(JWTRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route group to the named roles
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[GetRole(c)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("FORBIDDEN", "Insufficient role for this operation"))
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code := "UNAUTHORIZED"
	msg := "Authentication required"
	switch err {
	case auth.ErrExpiredToken:
		code = "TOKEN_EXPIRED"
		msg = "Token has expired"
	case auth.ErrInvalidToken:
		code = "INVALID_TOKEN"
		msg = "Invalid token"
	case auth.ErrInvalidClaims:
		code = "INVALID_TOKEN"
		msg = "Invalid token claims"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, msg))
}

// GetClaims retrieves JWT claims from gin.Context
func GetClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetAccountID retrieves the authenticated account ID
func GetAccountID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(JWTAccountIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetOrganizationID retrieves the authenticated account's organization ID
func GetOrganizationID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(JWTOrganizationIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetRole retrieves the authenticated account's role
func GetRole(c *gin.Context) string {
	if v, exists := c.Get(JWTRoleKey); exists {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

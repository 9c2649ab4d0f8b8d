package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/infrastructure/auth"
	"github.com/erp/productext/internal/infrastructure/logger"
	"github.com/erp/productext/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// ErrNoActor is returned when a handler runs without authenticated claims
var ErrNoActor = errors.New("no authenticated user in request")

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are served without a token
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuthMiddlewareWithConfig validates the bearer token and stores its
// claims in the gin context and the request logger.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			unauthorized(c, log, auth.ErrInvalidToken, "missing bearer token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(token)
		if err != nil {
			unauthorized(c, log, err, "token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)

		ctx, _ := logger.WithActor(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.TenantID, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func unauthorized(c *gin.Context, log *zap.Logger, err error, reason string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeTokenInvalid, "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	}
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// GetJWTClaims returns the validated claims, or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetActor builds the service actor from the validated claims
func GetActor(c *gin.Context) (catalogapp.Actor, error) {
	claims := GetJWTClaims(c)
	if claims == nil {
		return catalogapp.Actor{}, ErrNoActor
	}
	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return catalogapp.Actor{}, auth.ErrInvalidClaims
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return catalogapp.Actor{}, auth.ErrInvalidClaims
	}
	return catalogapp.Actor{
		TenantID:  tenantID,
		UserID:    userID,
		CompanyID: claims.GetCompanyUUID(),
	}, nil
}

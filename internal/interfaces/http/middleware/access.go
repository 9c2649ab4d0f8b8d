package middleware

import (
	"net/http"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessModeForMethod maps an HTTP method to the access mode it needs
func AccessModeForMethod(method string) identity.AccessMode {
	switch method {
	case http.MethodPost:
		return identity.AccessModeCreate
	case http.MethodPut, http.MethodPatch:
		return identity.AccessModeWrite
	case http.MethodDelete:
		return identity.AccessModeUnlink
	default:
		return identity.AccessModeRead
	}
}

// RequireModelAccess checks that the authenticated user may perform the
// request's access mode on model. Denials answer 403 with the checker's message.
func RequireModelAccess(guard catalogapp.AccessGuard, model string, log *zap.Logger) gin.HandlerFunc {
	return requireAccess(guard, model, nil, log)
}

// RequireModelAccessMode is RequireModelAccess with a fixed mode
func RequireModelAccessMode(guard catalogapp.AccessGuard, model string, mode identity.AccessMode, log *zap.Logger) gin.HandlerFunc {
	return requireAccess(guard, model, &mode, log)
}

func requireAccess(guard catalogapp.AccessGuard, model string, fixed *identity.AccessMode, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		actor, err := GetActor(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		mode := AccessModeForMethod(c.Request.Method)
		if fixed != nil {
			mode = *fixed
		}
		if _, err := guard.Check(c.Request.Context(), actor.TenantID, actor.UserID, model, mode, true); err != nil {
			if de, ok := shared.AsDomainError(err); ok {
				log.Warn("Model access denied",
					zap.String("model", model),
					zap.String("mode", string(mode)),
					zap.String("user_id", actor.UserID.String()),
					zap.String("code", de.Code),
				)
				abortWithError(c, dto.GetHTTPStatus(de.Code), dto.NormalizeErrorCode(de.Code), de.Message)
				return
			}
			log.Error("Model access check failed", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}
		c.Next()
	}
}

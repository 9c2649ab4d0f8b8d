package handler

import (
	"context"
	"time"

	identityapp "github.com/erp/productext/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthUseCase is the identity service the auth handler serves
type AuthUseCase interface {
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.LoginResult, error)
	GetCurrentUser(ctx context.Context, tenantID, userID uuid.UUID) (*identityapp.UserInfo, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	auth AuthUseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AuthUseCase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Username string    `json:"username" binding:"required,min=1,max=100"`
	Password string    `json:"password" binding:"required,max=128"`
}

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// LoginResponse represents the response body for user login
type LoginResponse struct {
	Token TokenResponse        `json:"token"`
	User  identityapp.UserInfo `json:"user"`
}

// Login godoc
// @Summary      User login
// @Description  Authenticate a user of a tenant with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), identityapp.LoginInput{
		TenantID: req.TenantID,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Token: TokenResponse{
			AccessToken: result.AccessToken,
			ExpiresAt:   result.ExpiresAt,
			TokenType:   result.TokenType,
		},
		User: result.User,
	})
}

// GetCurrentUser godoc
// @Summary      Get current user
// @Description  Get the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	user, err := h.auth.GetCurrentUser(c.Request.Context(), actor.TenantID, actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

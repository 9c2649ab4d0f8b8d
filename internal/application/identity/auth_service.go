package identity

import (
	"context"
	"errors"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords alike
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username))

	user, err := s.userRepo.FindByUsername(ctx, input.TenantID, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("username", input.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive() {
		s.logger.Warn("Login attempt for deactivated account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password", zap.String("username", input.Username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		CompanyID:   user.CompanyID,
		Username:    user.Username,
		IsSuperuser: user.IsSuperuser,
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate token")
	}

	s.logger.Info("Login successful", zap.String("user_id", user.ID.String()))
	return &LoginResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        ToUserInfo(user),
	}, nil
}

// GetCurrentUser returns the user behind a token
func (s *AuthService) GetCurrentUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

package identity

import (
	"context"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessService answers model access questions for stored users
type AccessService struct {
	userRepo   identity.UserRepository
	accessRepo identity.ModelAccessRepository
	logger     *zap.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(userRepo identity.UserRepository, accessRepo identity.ModelAccessRepository, logger *zap.Logger) *AccessService {
	return &AccessService{
		userRepo:   userRepo,
		accessRepo: accessRepo,
		logger:     logger,
	}
}

// Check loads the user and the model's access rules and runs the product
// management checker over the rule-based one. Inactive users are refused.
func (s *AccessService) Check(ctx context.Context, tenantID, userID uuid.UUID, model any, mode identity.AccessMode, raiseException bool) (bool, error) {
	modelName, err := identity.ResolveModel(model)
	if err != nil {
		return false, err
	}
	if !mode.IsValid() {
		return false, shared.NewDomainError("INVALID_ACCESS_MODE", "Unknown access mode: "+string(mode))
	}

	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return false, err
	}
	if !user.IsActive() {
		return false, shared.ErrUnauthorized
	}

	rules, err := s.accessRepo.FindByModel(ctx, tenantID, modelName)
	if err != nil {
		return false, err
	}

	checker := identity.NewProductManagementChecker(identity.NewModelAccessChecker(rules))
	allowed, err := checker.Check(ctx, user, model, mode, raiseException)
	if !allowed {
		s.logger.Debug("Access denied",
			zap.String("user_id", userID.String()),
			zap.String("model", modelName),
			zap.String("mode", string(mode)),
		)
	}
	return allowed, err
}

// Grant stores a model access rule
func (s *AccessService) Grant(ctx context.Context, input GrantAccessInput) (*identity.ModelAccess, error) {
	access, err := identity.NewModelAccess(input.TenantID, input.Model, input.Group, input.Modes...)
	if err != nil {
		return nil, err
	}
	if err := s.accessRepo.Save(ctx, access); err != nil {
		return nil, err
	}

	s.logger.Info("Model access granted",
		zap.String("model", access.Model),
		zap.String("group", access.Group),
		zap.Bool("read", access.PermRead),
		zap.Bool("write", access.PermWrite),
		zap.Bool("create", access.PermCreate),
		zap.Bool("unlink", access.PermUnlink),
	)
	return access, nil
}

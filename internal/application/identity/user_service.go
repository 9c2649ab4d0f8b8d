package identity

import (
	"context"
	"errors"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages users and their groups
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Create creates a user with its groups
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserInfo, error) {
	_, err := s.userRepo.FindByUsername(ctx, input.TenantID, input.Username)
	switch {
	case err == nil:
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this username already exists")
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	user, err := identity.NewUser(input.TenantID, input.CompanyID, input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	user.IsSuperuser = input.IsSuperuser
	for _, group := range input.Groups {
		if err := user.AddGroup(group); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Strings("groups", user.Groups),
	)
	info := ToUserInfo(user)
	return &info, nil
}

// SetGroups replaces the groups of a user
func (s *UserService) SetGroups(ctx context.Context, tenantID, userID uuid.UUID, groups []string) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	for _, group := range append([]string(nil), user.Groups...) {
		user.RemoveGroup(group)
	}
	for _, group := range groups {
		if err := user.AddGroup(group); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

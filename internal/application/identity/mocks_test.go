package identity

import (
	"context"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockModelAccessRepository is a mock implementation of identity.ModelAccessRepository
type MockModelAccessRepository struct {
	mock.Mock
}

func (m *MockModelAccessRepository) FindByModel(ctx context.Context, tenantID uuid.UUID, model string) ([]identity.ModelAccess, error) {
	args := m.Called(ctx, tenantID, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.ModelAccess), args.Error(1)
}

func (m *MockModelAccessRepository) Save(ctx context.Context, access *identity.ModelAccess) error {
	args := m.Called(ctx, access)
	return args.Error(0)
}

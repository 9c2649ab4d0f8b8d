package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence for users
type UserRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// ModelAccessRepository defines persistence for model access rules
type ModelAccessRepository interface {
	// FindByModel returns the rules of a model for the tenant
	FindByModel(ctx context.Context, tenantID uuid.UUID, model string) ([]ModelAccess, error)
	Save(ctx context.Context, access *ModelAccess) error
}

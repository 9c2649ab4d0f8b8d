package settings

import (
	"context"

	"github.com/google/uuid"
)

// ConfigParameterRepository defines persistence for config parameters
type ConfigParameterRepository interface {
	// FindByKey returns shared.ErrNotFound when the key is missing
	FindByKey(ctx context.Context, tenantID uuid.UUID, key string) (*ConfigParameter, error)

	// Create inserts a new parameter and fills its Seq
	Create(ctx context.Context, param *ConfigParameter) error

	// UpdateValue writes value with a single UPDATE statement, bypassing
	// hooks and any cached copy of the parameter
	UpdateValue(ctx context.Context, id uuid.UUID, value string) error
}

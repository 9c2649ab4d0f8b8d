package catalog

import (
	"context"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/google/uuid"
)

// AccessGuard decides whether a user may perform mode on a model
type AccessGuard interface {
	Check(ctx context.Context, tenantID, userID uuid.UUID, model any, mode identity.AccessMode, raiseException bool) (bool, error)
}

// Actor is the user a service call acts for.
// CompanyID is the user's current company and may be uuid.Nil.
type Actor struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	CompanyID uuid.UUID
}

func (a Actor) require(ctx context.Context, guard AccessGuard, model string, mode identity.AccessMode) error {
	_, err := guard.Check(ctx, a.TenantID, a.UserID, model, mode, true)
	return err
}

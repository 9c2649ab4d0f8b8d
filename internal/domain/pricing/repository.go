package pricing

import (
	"context"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
)

// PricelistRepository defines the interface for pricelist persistence
type PricelistRepository interface {
	// FindByID loads a pricelist with its items
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Pricelist, error)

	// FindAll lists the pricelists of a tenant, items included
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Pricelist, int64, error)

	// Save creates or updates a pricelist and replaces its items
	Save(ctx context.Context, pricelist *Pricelist) error
}

package catalog

import (
	"context"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductTemplateRepository defines the interface for product template persistence
type ProductTemplateRepository interface {
	// FindByID finds a template by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductTemplate, error)

	// FindByCode finds a template by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ProductTemplate, error)

	// FindByIDs finds multiple templates by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*ProductTemplate, error)

	// FindAll finds the templates matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ProductTemplate, int64, error)

	// FindWithPlannedPriceAfter returns up to limit templates with a list
	// price type set and Seq greater than afterSeq, in Seq order
	FindWithPlannedPriceAfter(ctx context.Context, tenantID uuid.UUID, afterSeq int64, limit int) ([]*ProductTemplate, error)

	// FindTenantsWithPlannedPrices lists the tenants owning at least one
	// template with a list price type set
	FindTenantsWithPlannedPrices(ctx context.Context) ([]uuid.UUID, error)

	// ExistsByCode checks if a template with the given code exists in the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// Save creates or updates a template
	Save(ctx context.Context, tmpl *ProductTemplate) error

	// UpdateListPrice writes the list price with a single UPDATE statement,
	// leaving version and timestamps untouched
	UpdateListPrice(ctx context.Context, id uuid.UUID, listPrice decimal.Decimal) error
}

// ProductVariantRepository defines the interface for product variant persistence
type ProductVariantRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductVariant, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*ProductVariant, error)
	FindByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]*ProductVariant, error)
	Save(ctx context.Context, variant *ProductVariant) error
}

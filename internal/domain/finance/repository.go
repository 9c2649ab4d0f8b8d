package finance

import (
	"context"

	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CompanyRepository defines persistence for companies
type CompanyRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Company, error)
	// FindFirst returns the company with the lowest sequence of the tenant
	FindFirst(ctx context.Context, tenantID uuid.UUID) (*Company, error)
	Save(ctx context.Context, company *Company) error
}

// CurrencyRepository defines persistence for currencies and their rates
type CurrencyRepository interface {
	FindByCode(ctx context.Context, tenantID uuid.UUID, code valueobject.CurrencyCode) (*Currency, error)
	Save(ctx context.Context, currency *Currency) error
}

// TaxRepository defines persistence for taxes
type TaxRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Tax, error)
	// FindByIDs returns the active taxes among ids, in sequence order
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (Taxes, error)
	Save(ctx context.Context, tax *Tax) error
}

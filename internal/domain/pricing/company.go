package pricing

import (
	"context"

	"github.com/erp/productext/internal/domain/finance"
	"github.com/google/uuid"
)

// resolveCompany returns the requested company, or the tenant's first one
// when companyID is uuid.Nil.
func resolveCompany(ctx context.Context, companies finance.CompanyRepository, tenantID, companyID uuid.UUID) (*finance.Company, error) {
	if companyID != uuid.Nil {
		return companies.FindByID(ctx, tenantID, companyID)
	}
	return companies.FindFirst(ctx, tenantID)
}

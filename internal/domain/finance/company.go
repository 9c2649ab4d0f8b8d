package finance

import (
	"strings"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Company is a legal entity within a tenant. Prices and taxes are company scoped.
type Company struct {
	shared.TenantAggregateRoot
	// Seq is the storage-assigned sequence; the lowest one is the default company.
	Seq          int64
	Name         string
	CurrencyCode valueobject.CurrencyCode
}

// NewCompany creates a company with its accounting currency
func NewCompany(tenantID uuid.UUID, name, currencyCode string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	code, err := valueobject.ParseCurrencyCode(currencyCode)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	return &Company{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		CurrencyCode:        code,
	}, nil
}

package finance

import (
	"context"

	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCompanyRepository is a mock implementation of CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Company, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindFirst(ctx context.Context, tenantID uuid.UUID) (*finance.Company, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *finance.Company) error {
	return m.Called(ctx, company).Error(0)
}

// MockCurrencyRepository is a mock implementation of CurrencyRepository
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code valueobject.CurrencyCode) (*finance.Currency, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) Save(ctx context.Context, currency *finance.Currency) error {
	return m.Called(ctx, currency).Error(0)
}

// MockTaxRepository is a mock implementation of TaxRepository
type MockTaxRepository struct {
	mock.Mock
}

func (m *MockTaxRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Tax, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Tax), args.Error(1)
}

func (m *MockTaxRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (finance.Taxes, error) {
	args := m.Called(ctx, tenantID, ids)
	taxes, _ := args.Get(0).(finance.Taxes)
	return taxes, args.Error(1)
}

func (m *MockTaxRepository) Save(ctx context.Context, tax *finance.Tax) error {
	return m.Called(ctx, tax).Error(0)
}

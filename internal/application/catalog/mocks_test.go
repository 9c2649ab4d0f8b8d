package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/settings"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductTemplateRepository is a mock implementation of ProductTemplateRepository
type MockProductTemplateRepository struct {
	mock.Mock
}

func (m *MockProductTemplateRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ProductTemplate, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductTemplate), args.Error(1)
}

func (m *MockProductTemplateRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.ProductTemplate, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductTemplate), args.Error(1)
}

func (m *MockProductTemplateRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.ProductTemplate, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.ProductTemplate), args.Error(1)
}

func (m *MockProductTemplateRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.ProductTemplate, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*catalog.ProductTemplate), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductTemplateRepository) FindWithPlannedPriceAfter(ctx context.Context, tenantID uuid.UUID, afterSeq int64, limit int) ([]*catalog.ProductTemplate, error) {
	args := m.Called(ctx, tenantID, afterSeq, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.ProductTemplate), args.Error(1)
}

func (m *MockProductTemplateRepository) FindTenantsWithPlannedPrices(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockProductTemplateRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductTemplateRepository) Save(ctx context.Context, tmpl *catalog.ProductTemplate) error {
	args := m.Called(ctx, tmpl)
	return args.Error(0)
}

func (m *MockProductTemplateRepository) UpdateListPrice(ctx context.Context, id uuid.UUID, listPrice decimal.Decimal) error {
	args := m.Called(ctx, id, listPrice)
	return args.Error(0)
}

// MockProductVariantRepository is a mock implementation of ProductVariantRepository
type MockProductVariantRepository struct {
	mock.Mock
}

func (m *MockProductVariantRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ProductVariant, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariant), args.Error(1)
}

func (m *MockProductVariantRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.ProductVariant, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.ProductVariant), args.Error(1)
}

func (m *MockProductVariantRepository) FindByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]*catalog.ProductVariant, error) {
	args := m.Called(ctx, tenantID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.ProductVariant), args.Error(1)
}

func (m *MockProductVariantRepository) Save(ctx context.Context, variant *catalog.ProductVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(finance.Taxes), args.Error(1)
}

func (m *MockTaxRepository) Save(ctx context.Context, tax *finance.Tax) error {
	args := m.Called(ctx, tax)
	return args.Error(0)
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
	args := m.Called(ctx, currency)
	return args.Error(0)
}

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
	args := m.Called(ctx, company)
	return args.Error(0)
}

// MockConfigParameterRepository is a mock implementation of ConfigParameterRepository
type MockConfigParameterRepository struct {
	mock.Mock
}

func (m *MockConfigParameterRepository) FindByKey(ctx context.Context, tenantID uuid.UUID, key string) (*settings.ConfigParameter, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.ConfigParameter), args.Error(1)
}

func (m *MockConfigParameterRepository) Create(ctx context.Context, param *settings.ConfigParameter) error {
	args := m.Called(ctx, param)
	return args.Error(0)
}

func (m *MockConfigParameterRepository) UpdateValue(ctx context.Context, id uuid.UUID, value string) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockAccessGuard is a mock implementation of AccessGuard
type MockAccessGuard struct {
	mock.Mock
}

func (m *MockAccessGuard) Check(ctx context.Context, tenantID, userID uuid.UUID, model any, mode identity.AccessMode, raiseException bool) (bool, error) {
	args := m.Called(ctx, tenantID, userID, model, mode, raiseException)
	return args.Bool(0), args.Error(1)
}

// txScopeStub runs the callback against the given repositories, without a database
type txScopeStub struct {
	templates *MockProductTemplateRepository
	params    *MockConfigParameterRepository
}

func (s *txScopeStub) Execute(ctx context.Context, fn func(repos PlannedPriceRepositories) error) error {
	return fn(s)
}

func (s *txScopeStub) Templates() catalog.ProductTemplateRepository  { return s.templates }
func (s *txScopeStub) Parameters() settings.ConfigParameterRepository { return s.params }

// memoryLock is an in-process JobLock
type memoryLock struct {
	mu   sync.Mutex
	held map[string]string
}

func newMemoryLock() *memoryLock {
	return &memoryLock{held: make(map[string]string)}
}

func (l *memoryLock) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	token := uuid.NewString()
	l.held[key] = token
	return token, true, nil
}

func (l *memoryLock) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

// triggerRecorder records scheduled runs
type triggerRecorder struct {
	tenants []uuid.UUID
}

func (r *triggerRecorder) Trigger(tenantID uuid.UUID) {
	r.tenants = append(r.tenants, tenantID)
}

// metricsRecorder records observed runs
type metricsRecorder struct {
	runs []error
}

func (r *metricsRecorder) ObserveRun(job string, result *BatchResult, duration time.Duration, err error) {
	r.runs = append(r.runs, err)
}

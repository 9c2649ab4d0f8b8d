package pricing

import (
	"context"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/pricing"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPricelistRepository is a mock implementation of PricelistRepository
type MockPricelistRepository struct {
	mock.Mock
}

func (m *MockPricelistRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pricing.Pricelist, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Pricelist), args.Error(1)
}

func (m *MockPricelistRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*pricing.Pricelist, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*pricing.Pricelist), args.Get(1).(int64), args.Error(2)
}

func (m *MockPricelistRepository) Save(ctx context.Context, pricelist *pricing.Pricelist) error {
	args := m.Called(ctx, pricelist)
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

// catalogStore is an in-memory catalog and finance store
type catalogStore struct {
	templates  map[uuid.UUID]*catalog.ProductTemplate
	variants   map[uuid.UUID]*catalog.ProductVariant
	taxes      map[uuid.UUID]*finance.Tax
	currencies map[valueobject.CurrencyCode]*finance.Currency
	companies  []*finance.Company
}

func newCatalogStore() *catalogStore {
	return &catalogStore{
		templates:  make(map[uuid.UUID]*catalog.ProductTemplate),
		variants:   make(map[uuid.UUID]*catalog.ProductVariant),
		taxes:      make(map[uuid.UUID]*finance.Tax),
		currencies: make(map[valueobject.CurrencyCode]*finance.Currency),
	}
}

type templateStore struct{ *catalogStore }

func (s templateStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ProductTemplate, error) {
	if t, ok := s.templates[id]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func (s templateStore) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.ProductTemplate, error) {
	for _, t := range s.templates {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s templateStore) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.ProductTemplate, error) {
	out := make([]*catalog.ProductTemplate, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.templates[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s templateStore) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*catalog.ProductTemplate, int64, error) {
	return nil, 0, nil
}

func (s templateStore) FindWithPlannedPriceAfter(ctx context.Context, tenantID uuid.UUID, afterSeq int64, limit int) ([]*catalog.ProductTemplate, error) {
	return nil, nil
}

func (s templateStore) FindTenantsWithPlannedPrices(ctx context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func (s templateStore) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return false, nil
}

func (s templateStore) Save(ctx context.Context, tmpl *catalog.ProductTemplate) error {
	s.templates[tmpl.ID] = tmpl
	return nil
}

func (s templateStore) UpdateListPrice(ctx context.Context, id uuid.UUID, listPrice decimal.Decimal) error {
	return nil
}

type variantStore struct{ *catalogStore }

func (s variantStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ProductVariant, error) {
	if v, ok := s.variants[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (s variantStore) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.ProductVariant, error) {
	out := make([]*catalog.ProductVariant, 0, len(ids))
	for _, id := range ids {
		if v, ok := s.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s variantStore) FindByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]*catalog.ProductVariant, error) {
	return nil, nil
}

func (s variantStore) Save(ctx context.Context, variant *catalog.ProductVariant) error {
	s.variants[variant.ID] = variant
	return nil
}

type financeStore struct{ *catalogStore }

func (s financeStore) FindByCode(ctx context.Context, tenantID uuid.UUID, code valueobject.CurrencyCode) (*finance.Currency, error) {
	if c, ok := s.currencies[code]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (s financeStore) Save(ctx context.Context, currency *finance.Currency) error {
	s.currencies[currency.Code] = currency
	return nil
}

type taxStore struct{ *catalogStore }

func (s taxStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Tax, error) {
	if t, ok := s.taxes[id]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func (s taxStore) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (finance.Taxes, error) {
	out := make(finance.Taxes, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.taxes[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s taxStore) Save(ctx context.Context, tax *finance.Tax) error {
	s.taxes[tax.ID] = tax
	return nil
}

type companyStore struct{ *catalogStore }

func (s companyStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Company, error) {
	for _, c := range s.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s companyStore) FindFirst(ctx context.Context, tenantID uuid.UUID) (*finance.Company, error) {
	if len(s.companies) == 0 {
		return nil, shared.ErrNotFound
	}
	return s.companies[0], nil
}

func (s companyStore) Save(ctx context.Context, company *finance.Company) error {
	s.companies = append(s.companies, company)
	return nil
}

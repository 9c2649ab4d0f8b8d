package catalog

import (
	"testing"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decEq matches a decimal argument by value rather than representation
func decEq(s string) any {
	want := d(s)
	return mock.MatchedBy(func(v decimal.Decimal) bool { return v.Equal(want) })
}

type serviceFixture struct {
	tenantID   uuid.UUID
	company    *finance.Company
	usd        *finance.Currency
	templates  *MockProductTemplateRepository
	variants   *MockProductVariantRepository
	taxes      *MockTaxRepository
	currencies *MockCurrencyRepository
	companies  *MockCompanyRepository
	publisher  *MockEventPublisher
	planned    *PlannedPriceService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	tenantID := uuid.New()

	company, err := finance.NewCompany(tenantID, "Main", "USD")
	require.NoError(t, err)
	usd, err := finance.NewCurrency(tenantID, "USD", d("0.01"))
	require.NoError(t, err)

	f := &serviceFixture{
		tenantID:   tenantID,
		company:    company,
		usd:        usd,
		templates:  new(MockProductTemplateRepository),
		variants:   new(MockProductVariantRepository),
		taxes:      new(MockTaxRepository),
		currencies: new(MockCurrencyRepository),
		companies:  new(MockCompanyRepository),
		publisher:  new(MockEventPublisher),
	}
	f.currencies.On("FindByCode", mock.Anything, tenantID, valueobject.CurrencyCode("USD")).Return(usd, nil).Maybe()
	f.companies.On("FindFirst", mock.Anything, tenantID).Return(company, nil).Maybe()

	loader := NewPricedProductLoader(f.templates, f.variants, f.taxes, f.currencies)
	f.planned = NewPlannedPriceService(f.templates, f.companies, f.currencies, loader, catalog.NewPriceCalculator(), f.publisher, 2)
	return f
}

// marginTemplate builds a by-margin template priced in USD
func (f *serviceFixture) marginTemplate(t *testing.T, code string, seq int64, replenishment, margin, listPrice string) *catalog.ProductTemplate {
	t.Helper()
	tmpl, err := catalog.NewProductTemplate(f.tenantID, code, "Product "+code, "USD")
	require.NoError(t, err)
	require.NoError(t, tmpl.SetPrices(d(listPrice), decimal.Zero, d(replenishment)))
	require.NoError(t, tmpl.ConfigurePlannedPrice(catalog.PlannedPriceSettings{
		ListPriceType: catalog.ListPriceTypeByMargin,
		SaleMargin:    d(margin),
	}))
	tmpl.Seq = seq
	tmpl.ClearDomainEvents()
	return tmpl
}

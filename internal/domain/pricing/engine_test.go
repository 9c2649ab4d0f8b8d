package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var priceDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type fakePricelists map[uuid.UUID]*Pricelist

func (f fakePricelists) FindByID(_ context.Context, _, id uuid.UUID) (*Pricelist, error) {
	if pl, ok := f[id]; ok {
		return pl, nil
	}
	return nil, shared.ErrNotFound
}

func (f fakePricelists) FindAll(context.Context, uuid.UUID, shared.Filter) ([]*Pricelist, int64, error) {
	return nil, 0, nil
}

func (f fakePricelists) Save(_ context.Context, pl *Pricelist) error {
	f[pl.ID] = pl
	return nil
}

type fakeCurrencies map[valueobject.CurrencyCode]*finance.Currency

func (f fakeCurrencies) FindByCode(_ context.Context, _ uuid.UUID, code valueobject.CurrencyCode) (*finance.Currency, error) {
	if c, ok := f[code]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (f fakeCurrencies) Save(context.Context, *finance.Currency) error {
	return nil
}

type fakeCompanies struct {
	first *finance.Company
	byID  map[uuid.UUID]*finance.Company
}

func (f *fakeCompanies) FindByID(_ context.Context, _, id uuid.UUID) (*finance.Company, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCompanies) FindFirst(context.Context, uuid.UUID) (*finance.Company, error) {
	if f.first == nil {
		return nil, shared.ErrNotFound
	}
	return f.first, nil
}

func (f *fakeCompanies) Save(context.Context, *finance.Company) error {
	return nil
}

func newCurrency(t *testing.T, code, rate string) *finance.Currency {
	t.Helper()
	c, err := finance.NewCurrency(uuid.New(), code, d("0.01"))
	require.NoError(t, err)
	require.NoError(t, c.AddRate(priceDate.AddDate(0, 0, -7), d(rate), nil))
	return c
}

type engineFixture struct {
	tenantID   uuid.UUID
	usd, eur   *finance.Currency
	pricelists fakePricelists
	companies  *fakeCompanies
	currencies fakeCurrencies
	engine     *RuleEngine
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		tenantID:   uuid.New(),
		usd:        newCurrency(t, "USD", "1"),
		eur:        newCurrency(t, "EUR", "0.5"),
		pricelists: fakePricelists{},
		companies:  &fakeCompanies{byID: map[uuid.UUID]*finance.Company{}},
	}
	f.currencies = fakeCurrencies{"USD": f.usd, "EUR": f.eur}
	f.engine = NewRuleEngine(catalog.NewPriceCalculator(), f.pricelists, f.companies, f.currencies)
	return f
}

func (f *engineFixture) product(t *testing.T, listPrice string) *catalog.PricedProduct {
	p := newTestProduct(t, f.tenantID, listPrice)
	p.Currency = f.usd
	return p
}

func TestRuleEngine_ProductsPrice(t *testing.T) {
	ctx := context.Background()
	opts := PriceOptions{Date: priceDate}

	t.Run("no rule uses the list price", func(t *testing.T) {
		f := newEngineFixture(t)
		pl := newTestPricelist(t, f.tenantID, "USD")
		product := f.product(t, "10")

		prices, err := f.engine.ProductsPrice(ctx, pl, []*catalog.PricedProduct{product}, []decimal.Decimal{d("1")}, opts)
		require.NoError(t, err)
		assert.True(t, prices[product.ID()].Equal(d("10")))
	})

	t.Run("no rule converts to the pricelist currency", func(t *testing.T) {
		f := newEngineFixture(t)
		pl := newTestPricelist(t, f.tenantID, "EUR")
		product := f.product(t, "10")

		price, err := f.engine.ProductPrice(ctx, pl, product, d("1"), opts)
		require.NoError(t, err)
		assert.True(t, price.Equal(d("5")), "got %s", price)
	})

	t.Run("first matching rule wins", func(t *testing.T) {
		f := newEngineFixture(t)
		pl := newTestPricelist(t, f.tenantID, "USD")
		a, b := f.product(t, "10"), f.product(t, "20")

		_, err := pl.AddItem(PricelistItem{AppliedOn: AppliedOnProduct, TemplateID: ptr(a.TemplateID()), ComputePrice: ComputePriceFixed, FixedPrice: d("7")})
		require.NoError(t, err)
		_, err = pl.AddItem(PricelistItem{ComputePrice: ComputePricePercentage, PercentPrice: d("10")})
		require.NoError(t, err)

		prices, err := f.engine.ProductsPrice(ctx, pl, []*catalog.PricedProduct{a, b}, []decimal.Decimal{d("1"), d("1")}, opts)
		require.NoError(t, err)
		assert.True(t, prices[a.ID()].Equal(d("7")))
		assert.True(t, prices[b.ID()].Equal(d("18")))
	})

	t.Run("fixed price is not converted", func(t *testing.T) {
		f := newEngineFixture(t)
		pl := newTestPricelist(t, f.tenantID, "EUR")
		product := f.product(t, "10")
		_, err := pl.AddItem(PricelistItem{ComputePrice: ComputePriceFixed, FixedPrice: d("7")})
		require.NoError(t, err)

		price, err := f.engine.ProductPrice(ctx, pl, product, d("1"), opts)
		require.NoError(t, err)
		assert.True(t, price.Equal(d("7")))
	})

	t.Run("cost based rule", func(t *testing.T) {
		f := newEngineFixture(t)
		pl := newTestPricelist(t, f.tenantID, "USD")
		product := f.product(t, "10")
		_, err := pl.AddItem(PricelistItem{Base: PriceBaseStandardPrice, ComputePrice: ComputePriceFormula, PriceSurcharge: d("1")})
		require.NoError(t, err)

		price, err := f.engine.ProductPrice(ctx, pl, product, d("1"), opts)
		require.NoError(t, err)
		assert.True(t, price.Equal(d("5")))
	})

	t.Run("planned price replaces the list price base", func(t *testing.T) {
		f := newEngineFixture(t)
		pl := newTestPricelist(t, f.tenantID, "USD")
		product := f.product(t, "10")
		product.Template.ComputedListPriceManual = d("30")
		_, err := pl.AddItem(PricelistItem{ComputePrice: ComputePricePercentage, PercentPrice: d("50")})
		require.NoError(t, err)

		price, err := f.engine.ProductPrice(ctx, pl, product, d("1"), PriceOptions{Date: priceDate, UsePlannedPrice: true})
		require.NoError(t, err)
		assert.True(t, price.Equal(d("15")))
	})

	t.Run("rule based on another pricelist", func(t *testing.T) {
		f := newEngineFixture(t)
		base := newTestPricelist(t, f.tenantID, "EUR")
		_, err := base.AddItem(PricelistItem{ComputePrice: ComputePriceFixed, FixedPrice: d("4")})
		require.NoError(t, err)
		require.NoError(t, f.pricelists.Save(ctx, base))

		pl := newTestPricelist(t, f.tenantID, "USD")
		_, err = pl.AddItem(PricelistItem{Base: PriceBasePricelist, BasePricelistID: ptr(base.ID), ComputePrice: ComputePriceFormula, PriceSurcharge: d("1")})
		require.NoError(t, err)

		price, err := f.engine.ProductPrice(ctx, pl, f.product(t, "10"), d("1"), opts)
		require.NoError(t, err)
		assert.True(t, price.Equal(d("9")), "got %s", price)
	})

	t.Run("pricelists based on each other", func(t *testing.T) {
		f := newEngineFixture(t)
		a := newTestPricelist(t, f.tenantID, "USD")
		b := newTestPricelist(t, f.tenantID, "USD")
		_, err := a.AddItem(PricelistItem{Base: PriceBasePricelist, BasePricelistID: ptr(b.ID)})
		require.NoError(t, err)
		_, err = b.AddItem(PricelistItem{Base: PriceBasePricelist, BasePricelistID: ptr(a.ID)})
		require.NoError(t, err)
		require.NoError(t, f.pricelists.Save(ctx, a))
		require.NoError(t, f.pricelists.Save(ctx, b))

		_, err = f.engine.ProductPrice(ctx, a, f.product(t, "10"), d("1"), opts)
		assert.ErrorIs(t, err, ErrPricelistRecursion)
	})

	t.Run("quantities must match products", func(t *testing.T) {
		f := newEngineFixture(t)
		pl := newTestPricelist(t, f.tenantID, "USD")

		_, err := f.engine.ProductsPrice(ctx, pl, []*catalog.PricedProduct{f.product(t, "1")}, nil, opts)
		assert.ErrorIs(t, err, ErrQuantityMismatch)
	})

	t.Run("unknown pricelist currency", func(t *testing.T) {
		f := newEngineFixture(t)
		pl := newTestPricelist(t, f.tenantID, "JPY")

		_, err := f.engine.ProductPrice(ctx, pl, f.product(t, "1"), d("1"), opts)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

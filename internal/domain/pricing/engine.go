package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxPricelistDepth bounds chains of pricelists based on other pricelists
const maxPricelistDepth = 8

var (
	// ErrPricelistRecursion is returned when base pricelists loop
	ErrPricelistRecursion = shared.NewDomainError("PRICELIST_RECURSION", "Pricelists based on each other form a loop")
	// ErrQuantityMismatch is returned when products and quantities differ in length
	ErrQuantityMismatch = shared.NewDomainError("INVALID_INPUT", "One quantity is required per product")
)

// PriceOptions tune a pricelist price lookup
type PriceOptions struct {
	Date time.Time
	// TaxesIncluded returns prices with the product taxes of CompanyID included.
	TaxesIncluded bool
	// CompanyID defaults to the tenant's first company.
	CompanyID       uuid.UUID
	UsePlannedPrice bool
}

// Engine computes pricelist prices
type Engine interface {
	// ProductsPrice returns the price of each product keyed by product ID
	ProductsPrice(ctx context.Context, pricelist *Pricelist, products []*catalog.PricedProduct, quantities []decimal.Decimal, opts PriceOptions) (map[uuid.UUID]decimal.Decimal, error)
	// ProductPrice returns the price of one product
	ProductPrice(ctx context.Context, pricelist *Pricelist, product *catalog.PricedProduct, quantity decimal.Decimal, opts PriceOptions) (decimal.Decimal, error)
}

// RuleEngine applies the first matching pricelist item. Without a matching
// item the product list price is used.
type RuleEngine struct {
	calculator *catalog.PriceCalculator
	pricelists PricelistRepository
	companies  finance.CompanyRepository
	currencies finance.CurrencyRepository
	rules      *strategy.Registry[RuleStrategy]
}

// NewRuleEngine creates a RuleEngine with the built-in rule strategies
func NewRuleEngine(calculator *catalog.PriceCalculator, pricelists PricelistRepository, companies finance.CompanyRepository, currencies finance.CurrencyRepository) *RuleEngine {
	return &RuleEngine{
		calculator: calculator,
		pricelists: pricelists,
		companies:  companies,
		currencies: currencies,
		rules:      DefaultRules(),
	}
}

// ProductsPrice implements Engine
func (e *RuleEngine) ProductsPrice(ctx context.Context, pricelist *Pricelist, products []*catalog.PricedProduct, quantities []decimal.Decimal, opts PriceOptions) (map[uuid.UUID]decimal.Decimal, error) {
	if len(products) != len(quantities) {
		return nil, ErrQuantityMismatch
	}
	currency, err := e.currencies.FindByCode(ctx, pricelist.TenantID, pricelist.CurrencyCode)
	if err != nil {
		return nil, err
	}
	opts = withDefaults(opts)
	if opts.CompanyID == uuid.Nil {
		company, err := e.companies.FindFirst(ctx, pricelist.TenantID)
		switch {
		case err == nil:
			opts.CompanyID = company.ID
		case !isNotFound(err):
			return nil, err
		}
	}

	prices := make(map[uuid.UUID]decimal.Decimal, len(products))
	for i, product := range products {
		price, err := e.compute(ctx, pricelist, currency, product, quantities[i], opts, 0)
		if err != nil {
			return nil, err
		}
		prices[product.ID()] = price
	}
	return prices, nil
}

// ProductPrice implements Engine
func (e *RuleEngine) ProductPrice(ctx context.Context, pricelist *Pricelist, product *catalog.PricedProduct, quantity decimal.Decimal, opts PriceOptions) (decimal.Decimal, error) {
	prices, err := e.ProductsPrice(ctx, pricelist, []*catalog.PricedProduct{product}, []decimal.Decimal{quantity}, opts)
	if err != nil {
		return decimal.Zero, err
	}
	return prices[product.ID()], nil
}

func (e *RuleEngine) compute(ctx context.Context, pricelist *Pricelist, currency *finance.Currency, product *catalog.PricedProduct, quantity decimal.Decimal, opts PriceOptions, depth int) (decimal.Decimal, error) {
	computeOpts := catalog.PriceComputeOptions{
		UsePlannedPrice: opts.UsePlannedPrice,
		CompanyID:       opts.CompanyID,
		Date:            opts.Date,
	}

	for _, item := range pricelist.SortedItems() {
		if !item.Matches(product, quantity, opts.Date) {
			continue
		}

		var (
			price decimal.Decimal
			err   error
		)
		if item.Base == PriceBasePricelist && item.BasePricelistID != nil {
			price, err = e.basePricelistPrice(ctx, pricelist, currency, *item.BasePricelistID, product, quantity, opts, depth)
		} else {
			price, err = e.calculator.PriceCompute(product, item.Base.PriceType(), computeOpts)
		}
		if err != nil {
			return decimal.Zero, err
		}

		rule, ok := e.rules.Get(string(item.ComputePrice))
		if !ok {
			return decimal.Zero, shared.NewDomainError("INVALID_COMPUTE_PRICE", "Unknown pricelist item computation: "+string(item.ComputePrice))
		}
		price = rule.Apply(&item, price)

		if item.ComputePrice != ComputePriceFixed && item.Base != PriceBasePricelist {
			price = toPricelistCurrency(product, currency, price, opts)
		}
		return price, nil
	}

	price, err := e.calculator.PriceCompute(product, catalog.PriceTypeListPrice, computeOpts)
	if err != nil {
		return decimal.Zero, err
	}
	return toPricelistCurrency(product, currency, price, opts), nil
}

func (e *RuleEngine) basePricelistPrice(ctx context.Context, pricelist *Pricelist, currency *finance.Currency, baseID uuid.UUID, product *catalog.PricedProduct, quantity decimal.Decimal, opts PriceOptions, depth int) (decimal.Decimal, error) {
	if depth >= maxPricelistDepth {
		return decimal.Zero, ErrPricelistRecursion
	}
	base, err := e.pricelists.FindByID(ctx, pricelist.TenantID, baseID)
	if err != nil {
		return decimal.Zero, err
	}
	baseCurrency, err := e.currencies.FindByCode(ctx, base.TenantID, base.CurrencyCode)
	if err != nil {
		return decimal.Zero, err
	}
	price, err := e.compute(ctx, base, baseCurrency, product, quantity, opts, depth+1)
	if err != nil {
		return decimal.Zero, err
	}
	return baseCurrency.Convert(price, currency, opts.CompanyID, opts.Date, false), nil
}

func toPricelistCurrency(product *catalog.PricedProduct, currency *finance.Currency, price decimal.Decimal, opts PriceOptions) decimal.Decimal {
	if product.Currency == nil || currency == nil {
		return price
	}
	return product.Currency.Convert(price, currency, opts.CompanyID, opts.Date, false)
}

func withDefaults(opts PriceOptions) PriceOptions {
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}
	return opts
}

// isNotFound reports a missing record
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

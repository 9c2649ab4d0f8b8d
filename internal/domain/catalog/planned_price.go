package catalog

import (
	"time"

	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PlannedPriceStrategy computes the planned price for one list price type,
// before price-included taxes are applied.
type PlannedPriceStrategy interface {
	strategy.Strategy
	Compute(p *PricedProduct, companyID uuid.UUID, date time.Time) decimal.Decimal
}

// ManualPlannedPrice uses the manually entered planned price
type ManualPlannedPrice struct {
	strategy.BaseStrategy
}

// NewManualPlannedPrice creates the "manual" strategy
func NewManualPlannedPrice() *ManualPlannedPrice {
	return &ManualPlannedPrice{
		BaseStrategy: strategy.NewBaseStrategy(string(ListPriceTypeManual), strategy.StrategyTypePlannedPrice, ListPriceTypeManual.Label()),
	}
}

// Compute implements PlannedPriceStrategy
func (s *ManualPlannedPrice) Compute(p *PricedProduct, _ uuid.UUID, _ time.Time) decimal.Decimal {
	return p.Template.ComputedListPriceManual
}

// MarginPlannedPrice prices at replenishment cost * (1 + margin%) + surcharge
type MarginPlannedPrice struct {
	strategy.BaseStrategy
}

// NewMarginPlannedPrice creates the "by_margin" strategy
func NewMarginPlannedPrice() *MarginPlannedPrice {
	return &MarginPlannedPrice{
		BaseStrategy: strategy.NewBaseStrategy(string(ListPriceTypeByMargin), strategy.StrategyTypePlannedPrice, ListPriceTypeByMargin.Label()),
	}
}

// Compute implements PlannedPriceStrategy
func (s *MarginPlannedPrice) Compute(p *PricedProduct, _ uuid.UUID, _ time.Time) decimal.Decimal {
	t := p.Template
	factor := decimal.NewFromInt(1).Add(t.SaleMargin.Div(hundred))
	return t.ReplenishmentCost.Mul(factor).Add(t.SaleSurcharge)
}

// CurrencyPlannedPrice converts a price set in another currency into the
// product currency, unrounded, at the company rates of the given date.
type CurrencyPlannedPrice struct {
	strategy.BaseStrategy
}

// NewCurrencyPlannedPrice creates the "other_currency" strategy
func NewCurrencyPlannedPrice() *CurrencyPlannedPrice {
	return &CurrencyPlannedPrice{
		BaseStrategy: strategy.NewBaseStrategy(string(ListPriceTypeOtherCurrency), strategy.StrategyTypePlannedPrice, ListPriceTypeOtherCurrency.Label()),
	}
}

// Compute implements PlannedPriceStrategy. Without a product currency, or
// with an unknown planned currency, the manual planned price is kept.
func (s *CurrencyPlannedPrice) Compute(p *PricedProduct, companyID uuid.UUID, date time.Time) decimal.Decimal {
	if p.Currency == nil || p.OtherCurrency == nil {
		return p.Template.ComputedListPriceManual
	}
	return p.OtherCurrency.Convert(p.Template.OtherCurrencyListPrice, p.Currency, companyID, date, false)
}

// PriceCalculator computes planned prices and product prices by type
type PriceCalculator struct {
	strategies *strategy.Registry[PlannedPriceStrategy]
}

// NewPriceCalculator creates a calculator with the built-in planned price strategies
func NewPriceCalculator() *PriceCalculator {
	c := &PriceCalculator{
		strategies: strategy.NewRegistry[PlannedPriceStrategy](strategy.StrategyTypePlannedPrice),
	}
	c.Register(NewManualPlannedPrice())
	c.Register(NewMarginPlannedPrice())
	c.Register(NewCurrencyPlannedPrice())
	return c
}

// Register adds or replaces the strategy for the list price type named by s
func (c *PriceCalculator) Register(s PlannedPriceStrategy) bool {
	return c.strategies.Register(s)
}

// PlannedPrice returns the planned list price of p for companyID on date.
// Products without a known list price type are planned at zero. When the
// company's taxes of the product include price-included ones, the result is
// their tax-inclusive total.
func (c *PriceCalculator) PlannedPrice(p *PricedProduct, companyID uuid.UUID, date time.Time) decimal.Decimal {
	s, ok := c.strategies.Get(string(p.Template.ListPriceType))
	if !ok {
		return decimal.Zero
	}
	price := s.Compute(p, companyID, date)

	if included := p.CompanyTaxes(companyID).PriceIncluded(); len(included) > 0 {
		price = included.ComputeAll(price, p.Currency, decimal.NewFromInt(1), false).TotalIncluded
	}
	return price
}

// PriceComputeOptions tune PriceCompute
type PriceComputeOptions struct {
	// UsePlannedPrice reads the planned price whenever the list price is asked for.
	UsePlannedPrice bool
	// Currency converts the result; nil keeps the product currency.
	Currency  *finance.Currency
	CompanyID uuid.UUID
	Date      time.Time
}

// ErrInvalidPriceType is returned for unknown price types
var ErrInvalidPriceType = shared.NewDomainError("INVALID_PRICE_TYPE", "Unknown price type")

// PriceCompute returns the price of p for priceType. The variant price extra
// is added to list prices only.
func (c *PriceCalculator) PriceCompute(p *PricedProduct, priceType PriceType, opts PriceComputeOptions) (decimal.Decimal, error) {
	if opts.UsePlannedPrice && priceType == PriceTypeListPrice {
		priceType = PriceTypeComputedListPrice
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}

	var price decimal.Decimal
	switch priceType {
	case PriceTypeListPrice:
		price = p.Template.ListPrice
		if p.Variant != nil {
			price = price.Add(p.Variant.PriceExtra)
		}
	case PriceTypeStandardPrice:
		price = p.Template.StandardPrice
	case PriceTypeComputedListPrice:
		price = c.PlannedPrice(p, opts.CompanyID, opts.Date)
	default:
		return decimal.Zero, ErrInvalidPriceType
	}

	if opts.Currency != nil && p.Currency != nil && p.Currency.Code != opts.Currency.Code {
		price = p.Currency.Convert(price, opts.Currency, opts.CompanyID, opts.Date, true)
	}
	return price, nil
}

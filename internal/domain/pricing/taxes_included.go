package pricing

import (
	"context"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxesIncludedEngine wraps an Engine and, when PriceOptions.TaxesIncluded
// is set, returns prices with the company's product taxes included.
type TaxesIncludedEngine struct {
	next       Engine
	companies  finance.CompanyRepository
	currencies finance.CurrencyRepository
}

// NewTaxesIncludedEngine wraps next
func NewTaxesIncludedEngine(next Engine, companies finance.CompanyRepository, currencies finance.CurrencyRepository) *TaxesIncludedEngine {
	return &TaxesIncludedEngine{next: next, companies: companies, currencies: currencies}
}

// ProductsPrice implements Engine. Product pack parents without a rule of
// their own in the pricelist keep their untaxed price.
func (e *TaxesIncludedEngine) ProductsPrice(ctx context.Context, pricelist *Pricelist, products []*catalog.PricedProduct, quantities []decimal.Decimal, opts PriceOptions) (map[uuid.UUID]decimal.Decimal, error) {
	if !opts.TaxesIncluded {
		return e.next.ProductsPrice(ctx, pricelist, products, quantities, opts)
	}

	companyID, currency, err := e.company(ctx, pricelist.TenantID, opts.CompanyID)
	if err != nil {
		return nil, err
	}
	opts.CompanyID = companyID
	prices, err := e.next.ProductsPrice(ctx, pricelist, products, quantities, opts)
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		if CheckForProductPackParent(pricelist, product) {
			continue
		}
		prices[product.ID()] = includeTaxes(product, companyID, currency, prices[product.ID()])
	}
	return prices, nil
}

// ProductPrice implements Engine
func (e *TaxesIncludedEngine) ProductPrice(ctx context.Context, pricelist *Pricelist, product *catalog.PricedProduct, quantity decimal.Decimal, opts PriceOptions) (decimal.Decimal, error) {
	if !opts.TaxesIncluded {
		return e.next.ProductPrice(ctx, pricelist, product, quantity, opts)
	}

	companyID, currency, err := e.company(ctx, pricelist.TenantID, opts.CompanyID)
	if err != nil {
		return decimal.Zero, err
	}
	opts.CompanyID = companyID
	price, err := e.next.ProductPrice(ctx, pricelist, product, quantity, opts)
	if err != nil {
		return decimal.Zero, err
	}
	return includeTaxes(product, companyID, currency, price), nil
}

// company resolves the pricing company and its currency. The resolved
// company is handed to the wrapped engine so both price for the same one.
// Tax totals are rounded to the company currency when the tenant defines it.
func (e *TaxesIncludedEngine) company(ctx context.Context, tenantID, companyID uuid.UUID) (uuid.UUID, *finance.Currency, error) {
	company, err := resolveCompany(ctx, e.companies, tenantID, companyID)
	if err != nil {
		return uuid.Nil, nil, err
	}

	currency, err := e.currencies.FindByCode(ctx, tenantID, company.CurrencyCode)
	if err != nil {
		if isNotFound(err) {
			return company.ID, nil, nil
		}
		return uuid.Nil, nil, err
	}
	return company.ID, currency, nil
}

func includeTaxes(product *catalog.PricedProduct, companyID uuid.UUID, currency *finance.Currency, price decimal.Decimal) decimal.Decimal {
	return product.CompanyTaxes(companyID).ComputeAll(price, currency, decimal.NewFromInt(1), true).TotalIncluded
}

// CheckForProductPackParent reports whether the product is a pack parent
// whose tax inclusion should be skipped. Packs that price their components
// are skipped unless the pricelist has an item for the product (or, for a
// variant, for its template).
func CheckForProductPackParent(pricelist *Pricelist, product *catalog.PricedProduct) bool {
	tmpl := product.Template
	if !tmpl.PackOK || tmpl.PackComponentPrice == catalog.PackComponentPriceIgnored {
		return false
	}
	if pricelist.HasItemForTemplate(tmpl.ID) {
		return false
	}
	if product.IsVariant() && pricelist.HasItemForVariant(product.Variant.ID) {
		return false
	}
	return true
}

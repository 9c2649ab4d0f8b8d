package finance

import (
	"sort"
	"strings"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxAmountType is how a tax amount is derived from its base
type TaxAmountType string

const (
	TaxAmountTypePercent  TaxAmountType = "percent"
	TaxAmountTypeFixed    TaxAmountType = "fixed"
	TaxAmountTypeDivision TaxAmountType = "division"
)

// IsValid returns true for a known amount type
func (t TaxAmountType) IsValid() bool {
	switch t {
	case TaxAmountTypePercent, TaxAmountTypeFixed, TaxAmountTypeDivision:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// Tax is a sales tax applied to product prices
type Tax struct {
	shared.TenantAggregateRoot
	CompanyID         uuid.UUID
	Name              string
	AmountType        TaxAmountType
	Amount            decimal.Decimal
	PriceInclude      bool
	IncludeBaseAmount bool
	Sequence          int
	Active            bool
}

// NewTax creates an active tax for a company
func NewTax(tenantID, companyID uuid.UUID, name string, amountType TaxAmountType, amount decimal.Decimal) (*Tax, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tax name cannot be empty")
	}
	if !amountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TAX_TYPE", "Unknown tax amount type: "+string(amountType))
	}
	if amountType == TaxAmountTypeDivision && amount.GreaterThanOrEqual(hundred) {
		return nil, shared.NewDomainError("INVALID_TAX_AMOUNT", "Division tax amount must be below 100")
	}
	return &Tax{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
		Name:                name,
		AmountType:          amountType,
		Amount:              amount,
		Sequence:            1,
		Active:              true,
	}, nil
}

// computeAmount returns the tax amount for base. priceInclude selects the
// included formula for percent and division taxes.
func (t *Tax) computeAmount(base, quantity decimal.Decimal, priceInclude bool) decimal.Decimal {
	switch {
	case t.AmountType == TaxAmountTypeFixed:
		if !base.IsZero() && base.IsNegative() != quantity.IsNegative() {
			return quantity.Neg().Mul(t.Amount)
		}
		return quantity.Mul(t.Amount)
	case (t.AmountType == TaxAmountTypePercent && !priceInclude) || (t.AmountType == TaxAmountTypeDivision && priceInclude):
		return base.Mul(t.Amount).Div(hundred)
	case t.AmountType == TaxAmountTypePercent && priceInclude:
		return base.Sub(base.Div(decimal.NewFromInt(1).Add(t.Amount.Div(hundred))))
	default: // division, excluded
		return base.Div(decimal.NewFromInt(1).Sub(t.Amount.Div(hundred))).Sub(base)
	}
}

// TaxLine is the amount of one tax within a TaxResult
type TaxLine struct {
	TaxID    uuid.UUID       `json:"tax_id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Base     decimal.Decimal `json:"base"`
	Sequence int             `json:"sequence"`
}

// TaxResult is the outcome of Taxes.ComputeAll
type TaxResult struct {
	TotalExcluded decimal.Decimal `json:"total_excluded"`
	TotalIncluded decimal.Decimal `json:"total_included"`
	Base          decimal.Decimal `json:"base"`
	Taxes         []TaxLine       `json:"taxes"`
}

// Taxes is a set of taxes applied together
type Taxes []*Tax

// FilterCompany keeps the taxes of the given company
func (ts Taxes) FilterCompany(companyID uuid.UUID) Taxes {
	out := make(Taxes, 0, len(ts))
	for _, t := range ts {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out
}

// PriceIncluded keeps the price-included taxes
func (ts Taxes) PriceIncluded() Taxes {
	out := make(Taxes, 0, len(ts))
	for _, t := range ts {
		if t.PriceInclude {
			out = append(out, t)
		}
	}
	return out
}

// ComputeAll applies the taxes in sequence order to priceUnit*quantity.
//
// Price-included taxes are extracted from the amount (lowering the excluded
// total and the base) while the other taxes are added on top. With
// handlePriceInclude false every tax is treated as excluded, which turns a
// tax-free price into its tax-inclusive counterpart. Totals and tax amounts
// are rounded to the currency when one is given.
func (ts Taxes) ComputeAll(priceUnit decimal.Decimal, currency *Currency, quantity decimal.Decimal, handlePriceInclude bool) TaxResult {
	round := func(d decimal.Decimal) decimal.Decimal {
		if currency == nil {
			return d
		}
		return currency.Round(d)
	}

	sorted := make(Taxes, len(ts))
	copy(sorted, ts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sequence < sorted[j].Sequence
	})

	start := round(priceUnit.Mul(quantity))
	result := TaxResult{
		TotalExcluded: start,
		TotalIncluded: start,
		Base:          start,
		Taxes:         make([]TaxLine, 0, len(sorted)),
	}
	base := start

	for _, tax := range sorted {
		included := tax.PriceInclude && handlePriceInclude
		amount := round(tax.computeAmount(base, quantity, included))

		if included {
			result.TotalExcluded = result.TotalExcluded.Sub(amount)
			base = base.Sub(amount)
		} else {
			result.TotalIncluded = result.TotalIncluded.Add(amount)
		}

		result.Taxes = append(result.Taxes, TaxLine{
			TaxID:    tax.ID,
			Name:     tax.Name,
			Amount:   amount,
			Base:     base,
			Sequence: tax.Sequence,
		})

		if tax.IncludeBaseAmount {
			base = base.Add(amount)
		}
	}

	result.Base = base
	result.TotalExcluded = round(result.TotalExcluded)
	result.TotalIncluded = round(result.TotalIncluded)
	return result
}

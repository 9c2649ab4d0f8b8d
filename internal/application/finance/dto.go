package finance

import (
	"time"

	"github.com/erp/productext/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCompanyInput contains the input for creating a company
type CreateCompanyInput struct {
	TenantID     uuid.UUID
	Name         string
	CurrencyCode string
}

// CreateCurrencyInput contains the input for creating a currency.
// A zero Rounding means 0.01.
type CreateCurrencyInput struct {
	TenantID uuid.UUID
	Code     string
	Symbol   string
	Rounding decimal.Decimal
}

// AddRateInput contains the input for recording a currency rate
type AddRateInput struct {
	TenantID uuid.UUID
	Code     string
	Date     time.Time
	Rate     decimal.Decimal
	// CompanyID restricts the rate to one company; nil applies it to all.
	CompanyID *uuid.UUID
}

// CreateTaxInput contains the input for creating a tax.
// A nil CompanyID creates the tax on the tenant's first company.
type CreateTaxInput struct {
	TenantID          uuid.UUID
	CompanyID         uuid.UUID
	Name              string
	AmountType        finance.TaxAmountType
	Amount            decimal.Decimal
	PriceInclude      bool
	IncludeBaseAmount bool
	Sequence          int
}

// CompanyInfo is the public view of a company
type CompanyInfo struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currency_code"`
}

// CurrencyInfo is the public view of a currency
type CurrencyInfo struct {
	ID       uuid.UUID       `json:"id"`
	Code     string          `json:"code"`
	Symbol   string          `json:"symbol,omitempty"`
	Rounding decimal.Decimal `json:"rounding"`
	Rates    int             `json:"rates"`
}

// TaxInfo is the public view of a tax
type TaxInfo struct {
	ID                uuid.UUID       `json:"id"`
	CompanyID         uuid.UUID       `json:"company_id"`
	Name              string          `json:"name"`
	AmountType        string          `json:"amount_type"`
	Amount            decimal.Decimal `json:"amount"`
	PriceInclude      bool            `json:"price_include"`
	IncludeBaseAmount bool            `json:"include_base_amount"`
	Sequence          int             `json:"sequence"`
}

// ToCompanyInfo converts a domain company
func ToCompanyInfo(c *finance.Company) CompanyInfo {
	return CompanyInfo{ID: c.ID, TenantID: c.TenantID, Name: c.Name, CurrencyCode: c.CurrencyCode.String()}
}

// ToCurrencyInfo converts a domain currency
func ToCurrencyInfo(c *finance.Currency) CurrencyInfo {
	return CurrencyInfo{ID: c.ID, Code: c.Code.String(), Symbol: c.Symbol, Rounding: c.Rounding, Rates: len(c.Rates)}
}

// ToTaxInfo converts a domain tax
func ToTaxInfo(t *finance.Tax) TaxInfo {
	return TaxInfo{
		ID:                t.ID,
		CompanyID:         t.CompanyID,
		Name:              t.Name,
		AmountType:        string(t.AmountType),
		Amount:            t.Amount,
		PriceInclude:      t.PriceInclude,
		IncludeBaseAmount: t.IncludeBaseAmount,
		Sequence:          t.Sequence,
	}
}

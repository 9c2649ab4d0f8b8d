package finance

import (
	"sort"
	"time"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is a tenant currency with its rounding step and dated rates
type Currency struct {
	shared.TenantAggregateRoot
	Code     valueobject.CurrencyCode
	Name     string
	Symbol   string
	Rounding decimal.Decimal
	Active   bool
	Rates    []CurrencyRate
}

// CurrencyRate is the value of one unit of the reference currency expressed
// in this currency on a given date. A nil CompanyID applies to every company.
type CurrencyRate struct {
	ID         uuid.UUID
	CurrencyID uuid.UUID
	CompanyID  *uuid.UUID
	Date       time.Time
	Rate       decimal.Decimal
}

var defaultRounding = decimal.New(1, -2)

// NewCurrency creates an active currency
func NewCurrency(tenantID uuid.UUID, code string, rounding decimal.Decimal) (*Currency, error) {
	parsed, err := valueobject.ParseCurrencyCode(code)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	if rounding.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ROUNDING", "Currency rounding cannot be negative")
	}
	if rounding.IsZero() {
		rounding = defaultRounding
	}
	return &Currency{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                parsed,
		Name:                parsed.String(),
		Rounding:            rounding,
		Active:              true,
	}, nil
}

// AddRate records a rate for the given date and company
func (c *Currency) AddRate(date time.Time, rate decimal.Decimal, companyID *uuid.UUID) error {
	if !rate.IsPositive() {
		return shared.NewDomainError("INVALID_RATE", "Currency rate must be positive")
	}
	c.Rates = append(c.Rates, CurrencyRate{
		ID:         uuid.New(),
		CurrencyID: c.ID,
		CompanyID:  companyID,
		Date:       truncateDay(date),
		Rate:       rate,
	})
	c.Touch()
	return nil
}

// RateAt returns the latest rate dated on or before date. Company specific
// rates win over shared ones of the same date. Without any rate the currency
// is at par (1).
func (c *Currency) RateAt(companyID uuid.UUID, date time.Time) decimal.Decimal {
	day := truncateDay(date)
	candidates := make([]CurrencyRate, 0, len(c.Rates))
	for _, r := range c.Rates {
		if r.Date.After(day) {
			continue
		}
		if r.CompanyID != nil && *r.CompanyID != companyID {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return decimal.NewFromInt(1)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].Date.Equal(candidates[j].Date) {
			return candidates[i].Date.After(candidates[j].Date)
		}
		return candidates[i].CompanyID != nil && candidates[j].CompanyID == nil
	})
	return candidates[0].Rate
}

// Round rounds amount to the currency rounding step
func (c *Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return valueobject.RoundToStep(amount, c.Rounding)
}

// IsZero reports whether amount rounds to zero in this currency
func (c *Currency) IsZero(amount decimal.Decimal) bool {
	return c.Round(amount).IsZero()
}

// Convert converts amount from c into to at the rates valid for company on
// date. The result is rounded to the target currency only when round is set.
func (c *Currency) Convert(amount decimal.Decimal, to *Currency, companyID uuid.UUID, date time.Time, round bool) decimal.Decimal {
	result := amount
	if c.Code != to.Code {
		fromRate := c.RateAt(companyID, date)
		toRate := to.RateAt(companyID, date)
		result = amount.Mul(toRate).Div(fromRate)
	}
	if round {
		return to.Round(result)
	}
	return result
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestTax(t *testing.T, companyID uuid.UUID, amountType TaxAmountType, amount string, include bool) *Tax {
	t.Helper()
	tax, err := NewTax(uuid.New(), companyID, "VAT "+amount, amountType, d(amount))
	require.NoError(t, err)
	tax.PriceInclude = include
	return tax
}

func TestNewTax_Validation(t *testing.T) {
	_, err := NewTax(uuid.New(), uuid.New(), "", TaxAmountTypePercent, d("21"))
	assert.Error(t, err)

	_, err = NewTax(uuid.New(), uuid.New(), "X", TaxAmountType("group"), d("21"))
	assert.Error(t, err)

	_, err = NewTax(uuid.New(), uuid.New(), "X", TaxAmountTypeDivision, d("100"))
	assert.Error(t, err)
}

func TestTaxes_ComputeAll(t *testing.T) {
	company := uuid.New()
	usd, err := NewCurrency(uuid.New(), "USD", d("0.01"))
	require.NoError(t, err)

	tests := []struct {
		name          string
		taxes         func() Taxes
		price         string
		quantity      string
		handleInclude bool
		wantExcluded  string
		wantIncluded  string
	}{
		{
			name:          "no taxes",
			taxes:         func() Taxes { return nil },
			price:         "100",
			quantity:      "1",
			handleInclude: true,
			wantExcluded:  "100",
			wantIncluded:  "100",
		},
		{
			name:          "percent excluded",
			taxes:         func() Taxes { return Taxes{newTestTax(t, company, TaxAmountTypePercent, "21", false)} },
			price:         "100",
			quantity:      "1",
			handleInclude: true,
			wantExcluded:  "100",
			wantIncluded:  "121",
		},
		{
			name:          "percent included is extracted",
			taxes:         func() Taxes { return Taxes{newTestTax(t, company, TaxAmountTypePercent, "21", true)} },
			price:         "121",
			quantity:      "1",
			handleInclude: true,
			wantExcluded:  "100",
			wantIncluded:  "121",
		},
		{
			name:          "percent included treated as excluded",
			taxes:         func() Taxes { return Taxes{newTestTax(t, company, TaxAmountTypePercent, "21", true)} },
			price:         "100",
			quantity:      "1",
			handleInclude: false,
			wantExcluded:  "100",
			wantIncluded:  "121",
		},
		{
			name:          "division excluded",
			taxes:         func() Taxes { return Taxes{newTestTax(t, company, TaxAmountTypeDivision, "20", false)} },
			price:         "80",
			quantity:      "1",
			handleInclude: true,
			wantExcluded:  "80",
			wantIncluded:  "100",
		},
		{
			name:          "division included",
			taxes:         func() Taxes { return Taxes{newTestTax(t, company, TaxAmountTypeDivision, "20", true)} },
			price:         "100",
			quantity:      "1",
			handleInclude: true,
			wantExcluded:  "80",
			wantIncluded:  "100",
		},
		{
			name:          "fixed follows quantity",
			taxes:         func() Taxes { return Taxes{newTestTax(t, company, TaxAmountTypeFixed, "1.5", false)} },
			price:         "10",
			quantity:      "3",
			handleInclude: true,
			wantExcluded:  "30",
			wantIncluded:  "34.5",
		},
		{
			name:          "fixed takes the sign of a negative base",
			taxes:         func() Taxes { return Taxes{newTestTax(t, company, TaxAmountTypeFixed, "2", false)} },
			price:         "-10",
			quantity:      "1",
			handleInclude: true,
			wantExcluded:  "-10",
			wantIncluded:  "-12",
		},
		{
			name: "include base amount compounds the next tax",
			taxes: func() Taxes {
				first := newTestTax(t, company, TaxAmountTypePercent, "10", false)
				first.IncludeBaseAmount = true
				second := newTestTax(t, company, TaxAmountTypePercent, "10", false)
				second.Sequence = 2
				return Taxes{second, first}
			},
			price:         "100",
			quantity:      "1",
			handleInclude: true,
			wantExcluded:  "100",
			wantIncluded:  "121",
		},
		{
			name:          "rounds to currency",
			taxes:         func() Taxes { return Taxes{newTestTax(t, company, TaxAmountTypePercent, "21", false)} },
			price:         "9.99",
			quantity:      "1",
			handleInclude: true,
			wantExcluded:  "9.99",
			wantIncluded:  "12.09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.taxes().ComputeAll(d(tt.price), usd, d(tt.quantity), tt.handleInclude)
			assert.True(t, res.TotalExcluded.Equal(d(tt.wantExcluded)), "excluded: got %s", res.TotalExcluded)
			assert.True(t, res.TotalIncluded.Equal(d(tt.wantIncluded)), "included: got %s", res.TotalIncluded)
		})
	}
}

func TestTaxes_Filters(t *testing.T) {
	companyA := uuid.New()
	companyB := uuid.New()
	a := newTestTax(t, companyA, TaxAmountTypePercent, "21", true)
	b := newTestTax(t, companyB, TaxAmountTypePercent, "10", false)
	taxes := Taxes{a, b}

	assert.Equal(t, Taxes{a}, taxes.FilterCompany(companyA))
	assert.Equal(t, Taxes{a}, taxes.PriceIncluded())
	assert.Empty(t, Taxes{b}.PriceIncluded())
}

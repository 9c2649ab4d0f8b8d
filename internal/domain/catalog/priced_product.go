package catalog

import (
	"github.com/erp/productext/internal/domain/finance"
	"github.com/google/uuid"
)

// PricedProduct bundles a template, optionally one of its variants, and the
// records price computations read from.
type PricedProduct struct {
	Template *ProductTemplate
	Variant  *ProductVariant
	// Taxes are the template's customer taxes, all companies included.
	Taxes finance.Taxes
	// Currency is the template currency; nil when the tenant does not define it.
	Currency *finance.Currency
	// OtherCurrency is the planned price currency, if any.
	OtherCurrency *finance.Currency
}

// ID returns the variant ID for variants and the template ID otherwise
func (p *PricedProduct) ID() uuid.UUID {
	if p.Variant != nil {
		return p.Variant.ID
	}
	return p.Template.ID
}

// IsVariant reports whether the product is a variant
func (p *PricedProduct) IsVariant() bool {
	return p.Variant != nil
}

// TemplateID returns the template ID
func (p *PricedProduct) TemplateID() uuid.UUID {
	return p.Template.ID
}

// CompanyTaxes returns the product taxes of companyID
func (p *PricedProduct) CompanyTaxes(companyID uuid.UUID) finance.Taxes {
	return p.Taxes.FilterCompany(companyID)
}

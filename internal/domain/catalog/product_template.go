package catalog

import (
	"strings"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductTemplate is a sellable product. It is the aggregate root for
// catalog pricing and carries the planned price settings.
type ProductTemplate struct {
	shared.TenantAggregateRoot
	// Seq is assigned by storage in insertion order and drives batch cursors.
	Seq                int64
	Code               string
	Name               string
	CompanyID          *uuid.UUID
	CurrencyCode       valueobject.CurrencyCode
	ListPrice          decimal.Decimal
	StandardPrice      decimal.Decimal
	ReplenishmentCost  decimal.Decimal
	TaxIDs             []uuid.UUID
	PackOK             bool
	PackComponentPrice PackComponentPrice
	Active             bool

	ListPriceType           ListPriceType
	ComputedListPriceManual decimal.Decimal
	SaleMargin              decimal.Decimal
	SaleSurcharge           decimal.Decimal
	OtherCurrencyCode       valueobject.CurrencyCode
	OtherCurrencyListPrice  decimal.Decimal
}

// PlannedPriceSettings groups the fields that drive the planned price
type PlannedPriceSettings struct {
	ListPriceType           ListPriceType
	ComputedListPriceManual decimal.Decimal
	SaleMargin              decimal.Decimal
	SaleSurcharge           decimal.Decimal
	OtherCurrencyCode       string
	OtherCurrencyListPrice  decimal.Decimal
}

// NewProductTemplate creates an active product priced in currencyCode.
// New products get a manual planned price, like the list price type default.
func NewProductTemplate(tenantID uuid.UUID, code, name, currencyCode string) (*ProductTemplate, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	currency, err := valueobject.ParseCurrencyCode(currencyCode)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}

	tmpl := &ProductTemplate{
		TenantAggregateRoot:     shared.NewTenantAggregateRoot(tenantID),
		Code:                    strings.ToUpper(strings.TrimSpace(code)),
		Name:                    strings.TrimSpace(name),
		CurrencyCode:            currency,
		ListPrice:               decimal.Zero,
		StandardPrice:           decimal.Zero,
		ReplenishmentCost:       decimal.Zero,
		TaxIDs:                  make([]uuid.UUID, 0),
		PackComponentPrice:      PackComponentPriceDetailed,
		Active:                  true,
		ListPriceType:           ListPriceTypeManual,
		ComputedListPriceManual: decimal.Zero,
		SaleMargin:              decimal.Zero,
		SaleSurcharge:           decimal.Zero,
		OtherCurrencyListPrice:  decimal.Zero,
	}
	tmpl.AddDomainEvent(NewProductTemplateCreatedEvent(tmpl))
	return tmpl, nil
}

// Update changes the descriptive fields
func (p *ProductTemplate) Update(name string, companyID *uuid.UUID) error {
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.CompanyID = companyID
	p.touch()
	p.AddDomainEvent(NewProductTemplateUpdatedEvent(p))
	return nil
}

// SetPrices sets list price, cost and replenishment cost
func (p *ProductTemplate) SetPrices(listPrice, standardPrice, replenishmentCost decimal.Decimal) error {
	for _, v := range []decimal.Decimal{listPrice, standardPrice, replenishmentCost} {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
		}
	}
	old := p.ListPrice
	p.ListPrice = listPrice
	p.StandardPrice = standardPrice
	p.ReplenishmentCost = replenishmentCost
	p.touch()
	if !old.Equal(listPrice) {
		p.AddDomainEvent(NewListPriceChangedEvent(p, old, ListPriceSourceManual))
	}
	return nil
}

// SetTaxes replaces the customer taxes
func (p *ProductTemplate) SetTaxes(taxIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]bool, len(taxIDs))
	unique := make([]uuid.UUID, 0, len(taxIDs))
	for _, id := range taxIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	p.TaxIDs = unique
	p.touch()
}

// SetPack marks the product as a pack priced with mode
func (p *ProductTemplate) SetPack(packOK bool, mode PackComponentPrice) error {
	if mode == "" {
		mode = PackComponentPriceDetailed
	}
	if !mode.IsValid() {
		return shared.NewDomainError("INVALID_PACK_PRICE", "Unknown pack component price: "+string(mode))
	}
	p.PackOK = packOK
	p.PackComponentPrice = mode
	p.touch()
	return nil
}

// ConfigurePlannedPrice replaces the planned price settings
func (p *ProductTemplate) ConfigurePlannedPrice(s PlannedPriceSettings) error {
	if !s.ListPriceType.IsValid() {
		return shared.NewDomainError("INVALID_LIST_PRICE_TYPE", "Unknown planned price type: "+string(s.ListPriceType))
	}
	if s.ComputedListPriceManual.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Planned price cannot be negative")
	}
	if s.SaleMargin.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return shared.NewDomainError("INVALID_MARGIN", "Sale margin must be greater than -100%")
	}
	if s.OtherCurrencyListPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Planned price on currency cannot be negative")
	}

	var otherCurrency valueobject.CurrencyCode
	if strings.TrimSpace(s.OtherCurrencyCode) != "" {
		code, err := valueobject.ParseCurrencyCode(s.OtherCurrencyCode)
		if err != nil {
			return shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
		otherCurrency = code
	}
	if s.ListPriceType == ListPriceTypeOtherCurrency && otherCurrency == "" {
		return shared.NewDomainError("CURRENCY_REQUIRED", "Planned currency is required for currency exchange planned prices")
	}

	p.ListPriceType = s.ListPriceType
	p.ComputedListPriceManual = s.ComputedListPriceManual
	p.SaleMargin = s.SaleMargin
	p.SaleSurcharge = s.SaleSurcharge
	p.OtherCurrencyCode = otherCurrency
	p.OtherCurrencyListPrice = s.OtherCurrencyListPrice
	p.touch()
	p.AddDomainEvent(NewPlannedPriceConfiguredEvent(p))
	return nil
}

// PlannedPriceSettings returns the current planned price settings
func (p *ProductTemplate) PlannedPriceSettings() PlannedPriceSettings {
	return PlannedPriceSettings{
		ListPriceType:           p.ListPriceType,
		ComputedListPriceManual: p.ComputedListPriceManual,
		SaleMargin:              p.SaleMargin,
		SaleSurcharge:           p.SaleSurcharge,
		OtherCurrencyCode:       p.OtherCurrencyCode.String(),
		OtherCurrencyListPrice:  p.OtherCurrencyListPrice,
	}
}

// NeedsPlannedPriceUpdate reports whether planned should be copied into the
// list price: a planned price type is set, planned is not zero and it
// differs from the list price at the given precision.
func (p *ProductTemplate) NeedsPlannedPriceUpdate(planned decimal.Decimal, digits int32) bool {
	if !p.ListPriceType.IsSet() || planned.IsZero() {
		return false
	}
	return !valueobject.EqualAtPrecision(planned, p.ListPrice, digits)
}

// ApplyPlannedPrice copies planned into the list price. The change is
// persisted by a direct list price update, so the version is left untouched.
func (p *ProductTemplate) ApplyPlannedPrice(planned decimal.Decimal) {
	old := p.ListPrice
	p.ListPrice = planned
	p.AddDomainEvent(NewListPriceChangedEvent(p, old, ListPriceSourcePlanned))
}

// Archive deactivates the product
func (p *ProductTemplate) Archive() {
	p.Active = false
	p.touch()
	p.AddDomainEvent(NewProductTemplateUpdatedEvent(p))
}

func (p *ProductTemplate) touch() {
	p.Touch()
	p.IncrementVersion()
}

func validateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

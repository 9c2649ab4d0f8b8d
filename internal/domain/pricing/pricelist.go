package pricing

import (
	"sort"
	"strings"
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pricelist is a named set of price rules in one currency
type Pricelist struct {
	shared.TenantAggregateRoot
	Name         string
	CurrencyCode valueobject.CurrencyCode
	CompanyID    *uuid.UUID
	Active       bool
	Items        []PricelistItem
}

// PricelistItem is one rule of a pricelist
type PricelistItem struct {
	ID              uuid.UUID
	PricelistID     uuid.UUID
	AppliedOn       AppliedOn
	TemplateID      *uuid.UUID
	VariantID       *uuid.UUID
	MinQuantity     decimal.Decimal
	Base            PriceBase
	BasePricelistID *uuid.UUID
	ComputePrice    ComputePrice
	FixedPrice      decimal.Decimal
	PercentPrice    decimal.Decimal
	PriceDiscount   decimal.Decimal
	PriceSurcharge  decimal.Decimal
	PriceRound      decimal.Decimal
	PriceMinMargin  decimal.Decimal
	PriceMaxMargin  decimal.Decimal
	DateStart       *time.Time
	DateEnd         *time.Time
	Sequence        int
}

// NewPricelist creates an active pricelist
func NewPricelist(tenantID uuid.UUID, name, currencyCode string) (*Pricelist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Pricelist name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Pricelist name cannot exceed 200 characters")
	}
	code, err := valueobject.ParseCurrencyCode(currencyCode)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	return &Pricelist{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		CurrencyCode:        code,
		Active:              true,
		Items:               make([]PricelistItem, 0),
	}, nil
}

// NewGlobalItem returns a global fixed-price item with the usual defaults
func NewGlobalItem() PricelistItem {
	return PricelistItem{
		AppliedOn:    AppliedOnGlobal,
		Base:         PriceBaseListPrice,
		ComputePrice: ComputePriceFixed,
		Sequence:     5,
	}
}

// AddItem validates item and appends it to the pricelist
func (p *Pricelist) AddItem(item PricelistItem) (*PricelistItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.PricelistID = p.ID
	if err := item.validate(); err != nil {
		return nil, err
	}
	p.Items = append(p.Items, item)
	p.Touch()
	p.IncrementVersion()
	return &p.Items[len(p.Items)-1], nil
}

// RemoveItem drops the item with the given ID
func (p *Pricelist) RemoveItem(itemID uuid.UUID) error {
	for i := range p.Items {
		if p.Items[i].ID == itemID {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			p.Touch()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SortedItems returns the items in evaluation order: most specific scope
// first, then higher minimum quantity, then sequence.
func (p *Pricelist) SortedItems() []PricelistItem {
	items := make([]PricelistItem, len(p.Items))
	copy(items, p.Items)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.AppliedOn != b.AppliedOn {
			return a.AppliedOn < b.AppliedOn
		}
		if !a.MinQuantity.Equal(b.MinQuantity) {
			return a.MinQuantity.GreaterThan(b.MinQuantity)
		}
		return a.Sequence < b.Sequence
	})
	return items
}

// HasItemForTemplate reports whether an item targets the template
func (p *Pricelist) HasItemForTemplate(templateID uuid.UUID) bool {
	for _, item := range p.Items {
		if item.TemplateID != nil && *item.TemplateID == templateID {
			return true
		}
	}
	return false
}

// HasItemForVariant reports whether an item targets the variant
func (p *Pricelist) HasItemForVariant(variantID uuid.UUID) bool {
	for _, item := range p.Items {
		if item.VariantID != nil && *item.VariantID == variantID {
			return true
		}
	}
	return false
}

// Matches reports whether the item applies to product for quantity on date
func (i *PricelistItem) Matches(product *catalog.PricedProduct, quantity decimal.Decimal, date time.Time) bool {
	if !i.MinQuantity.IsZero() && quantity.LessThan(i.MinQuantity) {
		return false
	}
	day := truncateDay(date)
	if i.DateStart != nil && truncateDay(*i.DateStart).After(day) {
		return false
	}
	if i.DateEnd != nil && truncateDay(*i.DateEnd).Before(day) {
		return false
	}
	if i.TemplateID != nil && *i.TemplateID != product.TemplateID() {
		return false
	}
	if i.VariantID != nil && (!product.IsVariant() || *i.VariantID != product.Variant.ID) {
		return false
	}
	return true
}

func (i *PricelistItem) validate() error {
	if i.AppliedOn == "" {
		i.AppliedOn = AppliedOnGlobal
	}
	if i.Base == "" {
		i.Base = PriceBaseListPrice
	}
	if i.ComputePrice == "" {
		i.ComputePrice = ComputePriceFixed
	}
	if !i.AppliedOn.IsValid() {
		return shared.NewDomainError("INVALID_APPLIED_ON", "Unknown pricelist item scope: "+string(i.AppliedOn))
	}
	if !i.Base.IsValid() {
		return shared.NewDomainError("INVALID_PRICE_BASE", "Unknown pricelist item base: "+string(i.Base))
	}
	if !i.ComputePrice.IsValid() {
		return shared.NewDomainError("INVALID_COMPUTE_PRICE", "Unknown pricelist item computation: "+string(i.ComputePrice))
	}
	switch i.AppliedOn {
	case AppliedOnProduct:
		if i.TemplateID == nil {
			return shared.NewDomainError("PRODUCT_REQUIRED", "Product rules need a product template")
		}
		i.VariantID = nil
	case AppliedOnVariant:
		if i.VariantID == nil {
			return shared.NewDomainError("PRODUCT_REQUIRED", "Variant rules need a product variant")
		}
	case AppliedOnGlobal:
		i.TemplateID = nil
		i.VariantID = nil
	}
	if i.Base == PriceBasePricelist {
		if i.BasePricelistID == nil {
			return shared.NewDomainError("PRICELIST_REQUIRED", "Rules based on another pricelist need that pricelist")
		}
		if *i.BasePricelistID == i.PricelistID {
			return shared.NewDomainError("INVALID_BASE_PRICELIST", "You cannot assign the main pricelist as other pricelist")
		}
	} else {
		i.BasePricelistID = nil
	}
	if i.MinQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	if i.PriceMinMargin.GreaterThan(i.PriceMaxMargin) {
		return shared.NewDomainError("INVALID_MARGIN", "The minimum margin should be lower than the maximum margin")
	}
	if i.DateStart != nil && i.DateEnd != nil && i.DateStart.After(*i.DateEnd) {
		return shared.NewDomainError("INVALID_DATES", "Start date must be before end date")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

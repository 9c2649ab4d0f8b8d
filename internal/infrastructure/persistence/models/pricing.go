package models

import (
	"time"

	"github.com/erp/productext/internal/domain/pricing"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricelistModel is the persistence model for the Pricelist aggregate.
type PricelistModel struct {
	TenantAggregateModel
	Name         string               `gorm:"type:varchar(200);not null"`
	CurrencyCode string               `gorm:"type:varchar(3);not null"`
	CompanyID    *uuid.UUID           `gorm:"type:uuid;index"`
	Active       bool                 `gorm:"not null;default:true"`
	Items        []PricelistItemModel `gorm:"foreignKey:PricelistID"`
}

// TableName returns the table name for GORM
func (PricelistModel) TableName() string {
	return "pricelists"
}

// ToDomain converts the persistence model to a domain Pricelist with its items.
func (m *PricelistModel) ToDomain() *pricing.Pricelist {
	items := make([]pricing.PricelistItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, m.Items[i].ToDomain())
	}
	return &pricing.Pricelist{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Name:                m.Name,
		CurrencyCode:        valueobject.CurrencyCode(m.CurrencyCode),
		CompanyID:           m.CompanyID,
		Active:              m.Active,
		Items:               items,
	}
}

// FromDomain populates the persistence model from a domain Pricelist.
func (m *PricelistModel) FromDomain(p *pricing.Pricelist) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.CurrencyCode = p.CurrencyCode.String()
	m.CompanyID = p.CompanyID
	m.Active = p.Active
	m.Items = make([]PricelistItemModel, 0, len(p.Items))
	for _, item := range p.Items {
		im := PricelistItemModel{}
		im.FromDomain(p.TenantID, item)
		m.Items = append(m.Items, im)
	}
}

// PricelistItemModel is the persistence model for a pricelist rule.
type PricelistItemModel struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	PricelistID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	AppliedOn       pricing.AppliedOn    `gorm:"type:varchar(20);not null"`
	TemplateID      *uuid.UUID           `gorm:"type:uuid;index"`
	VariantID       *uuid.UUID           `gorm:"type:uuid;index"`
	MinQuantity     decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:0"`
	Base            pricing.PriceBase    `gorm:"type:varchar(20);not null"`
	BasePricelistID *uuid.UUID           `gorm:"type:uuid"`
	ComputePrice    pricing.ComputePrice `gorm:"type:varchar(20);not null"`
	FixedPrice      decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:0"`
	PercentPrice    decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:0"`
	PriceDiscount   decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:0"`
	PriceSurcharge  decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:0"`
	PriceRound      decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:0"`
	PriceMinMargin  decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:0"`
	PriceMaxMargin  decimal.Decimal      `gorm:"type:decimal(18,6);not null;default:0"`
	DateStart       *time.Time           `gorm:"type:date"`
	DateEnd         *time.Time           `gorm:"type:date"`
	Sequence        int                  `gorm:"not null;default:5"`
}

// TableName returns the table name for GORM
func (PricelistItemModel) TableName() string {
	return "pricelist_items"
}

// ToDomain converts the persistence model to a domain PricelistItem.
func (m *PricelistItemModel) ToDomain() pricing.PricelistItem {
	return pricing.PricelistItem{
		ID:              m.ID,
		PricelistID:     m.PricelistID,
		AppliedOn:       m.AppliedOn,
		TemplateID:      m.TemplateID,
		VariantID:       m.VariantID,
		MinQuantity:     m.MinQuantity,
		Base:            m.Base,
		BasePricelistID: m.BasePricelistID,
		ComputePrice:    m.ComputePrice,
		FixedPrice:      m.FixedPrice,
		PercentPrice:    m.PercentPrice,
		PriceDiscount:   m.PriceDiscount,
		PriceSurcharge:  m.PriceSurcharge,
		PriceRound:      m.PriceRound,
		PriceMinMargin:  m.PriceMinMargin,
		PriceMaxMargin:  m.PriceMaxMargin,
		DateStart:       m.DateStart,
		DateEnd:         m.DateEnd,
		Sequence:        m.Sequence,
	}
}

// FromDomain populates the persistence model from a domain PricelistItem.
func (m *PricelistItemModel) FromDomain(tenantID uuid.UUID, i pricing.PricelistItem) {
	m.ID = i.ID
	m.TenantID = tenantID
	m.PricelistID = i.PricelistID
	m.AppliedOn = i.AppliedOn
	m.TemplateID = i.TemplateID
	m.VariantID = i.VariantID
	m.MinQuantity = i.MinQuantity
	m.Base = i.Base
	m.BasePricelistID = i.BasePricelistID
	m.ComputePrice = i.ComputePrice
	m.FixedPrice = i.FixedPrice
	m.PercentPrice = i.PercentPrice
	m.PriceDiscount = i.PriceDiscount
	m.PriceSurcharge = i.PriceSurcharge
	m.PriceRound = i.PriceRound
	m.PriceMinMargin = i.PriceMinMargin
	m.PriceMaxMargin = i.PriceMaxMargin
	m.DateStart = i.DateStart
	m.DateEnd = i.DateEnd
	m.Sequence = i.Sequence
}

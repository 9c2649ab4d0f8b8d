package models

import (
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductTemplateModel is the persistence model for the ProductTemplate aggregate.
type ProductTemplateModel struct {
	TenantAggregateModel
	Seq                     int64                      `gorm:"column:seq;->"`
	Code                    string                     `gorm:"type:varchar(50);not null;index"`
	Name                    string                     `gorm:"type:varchar(200);not null"`
	CompanyID               *uuid.UUID                 `gorm:"type:uuid;index"`
	CurrencyCode            string                     `gorm:"type:varchar(3);not null"`
	ListPrice               decimal.Decimal            `gorm:"type:decimal(18,6);not null;default:0"`
	StandardPrice           decimal.Decimal            `gorm:"type:decimal(18,6);not null;default:0"`
	ReplenishmentCost       decimal.Decimal            `gorm:"type:decimal(18,6);not null;default:0"`
	PackOK                  bool                       `gorm:"column:pack_ok;not null;default:false"`
	PackComponentPrice      catalog.PackComponentPrice `gorm:"type:varchar(20);not null;default:'detailed'"`
	Active                  bool                       `gorm:"not null;default:true"`
	ListPriceType           catalog.ListPriceType      `gorm:"type:varchar(20);not null;default:''"`
	ComputedListPriceManual decimal.Decimal            `gorm:"type:decimal(18,6);not null;default:0"`
	SaleMargin              decimal.Decimal            `gorm:"type:decimal(18,6);not null;default:0"`
	SaleSurcharge           decimal.Decimal            `gorm:"type:decimal(18,6);not null;default:0"`
	OtherCurrencyCode       string                     `gorm:"type:varchar(3);not null;default:''"`
	OtherCurrencyListPrice  decimal.Decimal            `gorm:"type:decimal(18,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductTemplateModel) TableName() string {
	return "product_templates"
}

// ToDomain converts the persistence model to a domain ProductTemplate.
// Taxes live in their own table and are attached by the repository.
func (m *ProductTemplateModel) ToDomain(taxIDs []uuid.UUID) *catalog.ProductTemplate {
	if taxIDs == nil {
		taxIDs = make([]uuid.UUID, 0)
	}
	return &catalog.ProductTemplate{
		TenantAggregateRoot:     m.TenantAggregateRoot(),
		Seq:                     m.Seq,
		Code:                    m.Code,
		Name:                    m.Name,
		CompanyID:               m.CompanyID,
		CurrencyCode:            valueobject.CurrencyCode(m.CurrencyCode),
		ListPrice:               m.ListPrice,
		StandardPrice:           m.StandardPrice,
		ReplenishmentCost:       m.ReplenishmentCost,
		TaxIDs:                  taxIDs,
		PackOK:                  m.PackOK,
		PackComponentPrice:      m.PackComponentPrice,
		Active:                  m.Active,
		ListPriceType:           m.ListPriceType,
		ComputedListPriceManual: m.ComputedListPriceManual,
		SaleMargin:              m.SaleMargin,
		SaleSurcharge:           m.SaleSurcharge,
		OtherCurrencyCode:       valueobject.CurrencyCode(m.OtherCurrencyCode),
		OtherCurrencyListPrice:  m.OtherCurrencyListPrice,
	}
}

// FromDomain populates the persistence model from a domain ProductTemplate.
func (m *ProductTemplateModel) FromDomain(p *catalog.ProductTemplate) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Seq = p.Seq
	m.Code = p.Code
	m.Name = p.Name
	m.CompanyID = p.CompanyID
	m.CurrencyCode = p.CurrencyCode.String()
	m.ListPrice = p.ListPrice
	m.StandardPrice = p.StandardPrice
	m.ReplenishmentCost = p.ReplenishmentCost
	m.PackOK = p.PackOK
	m.PackComponentPrice = p.PackComponentPrice
	m.Active = p.Active
	m.ListPriceType = p.ListPriceType
	m.ComputedListPriceManual = p.ComputedListPriceManual
	m.SaleMargin = p.SaleMargin
	m.SaleSurcharge = p.SaleSurcharge
	m.OtherCurrencyCode = p.OtherCurrencyCode.String()
	m.OtherCurrencyListPrice = p.OtherCurrencyListPrice
}

// ProductTemplateModelFromDomain creates a new persistence model from a domain ProductTemplate.
func ProductTemplateModelFromDomain(p *catalog.ProductTemplate) *ProductTemplateModel {
	m := &ProductTemplateModel{}
	m.FromDomain(p)
	return m
}

// ProductTemplateTaxModel links a template to one of its customer taxes.
type ProductTemplateTaxModel struct {
	TemplateID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaxID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Position   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductTemplateTaxModel) TableName() string {
	return "product_template_taxes"
}

// ProductVariantModel is the persistence model for the ProductVariant entity.
type ProductVariantModel struct {
	BaseModel
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	TemplateID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code       string          `gorm:"type:varchar(50);not null;index"`
	PriceExtra decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	Active     bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain ProductVariant.
func (m *ProductVariantModel) ToDomain() *catalog.ProductVariant {
	return &catalog.ProductVariant{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TenantID:   m.TenantID,
		TemplateID: m.TemplateID,
		Code:       m.Code,
		PriceExtra: m.PriceExtra,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain ProductVariant.
func (m *ProductVariantModel) FromDomain(v *catalog.ProductVariant) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.TenantID = v.TenantID
	m.TemplateID = v.TemplateID
	m.Code = v.Code
	m.PriceExtra = v.PriceExtra
	m.Active = v.Active
}

// ProductVariantModelFromDomain creates a new persistence model from a domain ProductVariant.
func ProductVariantModelFromDomain(v *catalog.ProductVariant) *ProductVariantModel {
	m := &ProductVariantModel{}
	m.FromDomain(v)
	return m
}

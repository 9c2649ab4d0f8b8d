package models

import (
	"time"

	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for the Company aggregate.
type CompanyModel struct {
	TenantAggregateModel
	Seq          int64  `gorm:"column:seq;->"`
	Name         string `gorm:"type:varchar(200);not null"`
	CurrencyCode string `gorm:"type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company.
func (m *CompanyModel) ToDomain() *finance.Company {
	return &finance.Company{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Seq:                 m.Seq,
		Name:                m.Name,
		CurrencyCode:        valueobject.CurrencyCode(m.CurrencyCode),
	}
}

// FromDomain populates the persistence model from a domain Company.
func (m *CompanyModel) FromDomain(c *finance.Company) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Seq = c.Seq
	m.Name = c.Name
	m.CurrencyCode = c.CurrencyCode.String()
}

// CurrencyModel is the persistence model for the Currency aggregate.
type CurrencyModel struct {
	TenantAggregateModel
	Code     string              `gorm:"type:varchar(3);not null;index"`
	Name     string              `gorm:"type:varchar(100);not null"`
	Symbol   string              `gorm:"type:varchar(10)"`
	Rounding decimal.Decimal     `gorm:"type:decimal(18,6);not null"`
	Active   bool                `gorm:"not null;default:true"`
	Rates    []CurrencyRateModel `gorm:"foreignKey:CurrencyID"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToDomain converts the persistence model to a domain Currency with its rates.
func (m *CurrencyModel) ToDomain() *finance.Currency {
	rates := make([]finance.CurrencyRate, 0, len(m.Rates))
	for i := range m.Rates {
		rates = append(rates, m.Rates[i].ToDomain())
	}
	return &finance.Currency{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		Code:                valueobject.CurrencyCode(m.Code),
		Name:                m.Name,
		Symbol:              m.Symbol,
		Rounding:            m.Rounding,
		Active:              m.Active,
		Rates:               rates,
	}
}

// FromDomain populates the persistence model from a domain Currency.
func (m *CurrencyModel) FromDomain(c *finance.Currency) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Code = c.Code.String()
	m.Name = c.Name
	m.Symbol = c.Symbol
	m.Rounding = c.Rounding
	m.Active = c.Active
	m.Rates = make([]CurrencyRateModel, 0, len(c.Rates))
	for _, r := range c.Rates {
		rate := CurrencyRateModel{}
		rate.FromDomain(c.TenantID, r)
		m.Rates = append(m.Rates, rate)
	}
}

// CurrencyRateModel is the persistence model for a dated currency rate.
type CurrencyRateModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrencyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CompanyID  *uuid.UUID      `gorm:"type:uuid"`
	Date       time.Time       `gorm:"type:date;not null"`
	Rate       decimal.Decimal `gorm:"type:decimal(24,12);not null"`
}

// TableName returns the table name for GORM
func (CurrencyRateModel) TableName() string {
	return "currency_rates"
}

// ToDomain converts the persistence model to a domain CurrencyRate.
func (m *CurrencyRateModel) ToDomain() finance.CurrencyRate {
	return finance.CurrencyRate{
		ID:         m.ID,
		CurrencyID: m.CurrencyID,
		CompanyID:  m.CompanyID,
		Date:       m.Date.UTC(),
		Rate:       m.Rate,
	}
}

// FromDomain populates the persistence model from a domain CurrencyRate.
func (m *CurrencyRateModel) FromDomain(tenantID uuid.UUID, r finance.CurrencyRate) {
	m.ID = r.ID
	m.TenantID = tenantID
	m.CurrencyID = r.CurrencyID
	m.CompanyID = r.CompanyID
	m.Date = r.Date
	m.Rate = r.Rate
}

// TaxModel is the persistence model for the Tax aggregate.
type TaxModel struct {
	TenantAggregateModel
	CompanyID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	Name              string                `gorm:"type:varchar(100);not null"`
	AmountType        finance.TaxAmountType `gorm:"type:varchar(20);not null"`
	Amount            decimal.Decimal       `gorm:"type:decimal(18,6);not null"`
	PriceInclude      bool                  `gorm:"not null;default:false"`
	IncludeBaseAmount bool                  `gorm:"not null;default:false"`
	Sequence          int                   `gorm:"not null;default:1"`
	Active            bool                  `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TaxModel) TableName() string {
	return "taxes"
}

// ToDomain converts the persistence model to a domain Tax.
func (m *TaxModel) ToDomain() *finance.Tax {
	return &finance.Tax{
		TenantAggregateRoot: m.TenantAggregateRoot(),
		CompanyID:           m.CompanyID,
		Name:                m.Name,
		AmountType:          m.AmountType,
		Amount:              m.Amount,
		PriceInclude:        m.PriceInclude,
		IncludeBaseAmount:   m.IncludeBaseAmount,
		Sequence:            m.Sequence,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain Tax.
func (m *TaxModel) FromDomain(t *finance.Tax) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.CompanyID = t.CompanyID
	m.Name = t.Name
	m.AmountType = t.AmountType
	m.Amount = t.Amount
	m.PriceInclude = t.PriceInclude
	m.IncludeBaseAmount = t.IncludeBaseAmount
	m.Sequence = t.Sequence
	m.Active = t.Active
}

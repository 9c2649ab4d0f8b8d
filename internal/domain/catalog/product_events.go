package catalog

import (
	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeProductTemplate is the aggregate type for product templates
const AggregateTypeProductTemplate = "ProductTemplate"

const (
	EventTypeProductTemplateCreated = "ProductTemplateCreated"
	EventTypeProductTemplateUpdated = "ProductTemplateUpdated"
	EventTypePlannedPriceConfigured = "PlannedPriceConfigured"
	EventTypeListPriceChanged       = "ListPriceChanged"
)

// ListPriceSource tells what changed a list price
type ListPriceSource string

const (
	ListPriceSourceManual  ListPriceSource = "manual"
	ListPriceSourcePlanned ListPriceSource = "planned"
)

// ProductTemplateCreatedEvent is published when a product template is created
type ProductTemplateCreatedEvent struct {
	shared.BaseDomainEvent
	Code         string `json:"code"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currency_code"`
}

// NewProductTemplateCreatedEvent creates a new ProductTemplateCreatedEvent
func NewProductTemplateCreatedEvent(p *ProductTemplate) *ProductTemplateCreatedEvent {
	return &ProductTemplateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductTemplateCreated, AggregateTypeProductTemplate, p.ID, p.TenantID),
		Code:            p.Code,
		Name:            p.Name,
		CurrencyCode:    p.CurrencyCode.String(),
	}
}

// ProductTemplateUpdatedEvent is published when descriptive fields change
type ProductTemplateUpdatedEvent struct {
	shared.BaseDomainEvent
	Name      string     `json:"name"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Active    bool       `json:"active"`
}

// NewProductTemplateUpdatedEvent creates a new ProductTemplateUpdatedEvent
func NewProductTemplateUpdatedEvent(p *ProductTemplate) *ProductTemplateUpdatedEvent {
	return &ProductTemplateUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductTemplateUpdated, AggregateTypeProductTemplate, p.ID, p.TenantID),
		Name:            p.Name,
		CompanyID:       p.CompanyID,
		Active:          p.Active,
	}
}

// PlannedPriceConfiguredEvent is published when planned price settings change
type PlannedPriceConfiguredEvent struct {
	shared.BaseDomainEvent
	ListPriceType ListPriceType `json:"list_price_type"`
}

// NewPlannedPriceConfiguredEvent creates a new PlannedPriceConfiguredEvent
func NewPlannedPriceConfiguredEvent(p *ProductTemplate) *PlannedPriceConfiguredEvent {
	return &PlannedPriceConfiguredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlannedPriceConfigured, AggregateTypeProductTemplate, p.ID, p.TenantID),
		ListPriceType:   p.ListPriceType,
	}
}

// ListPriceChangedEvent is published when the list price changes
type ListPriceChangedEvent struct {
	shared.BaseDomainEvent
	Code         string          `json:"code"`
	OldListPrice decimal.Decimal `json:"old_list_price"`
	NewListPrice decimal.Decimal `json:"new_list_price"`
	Source       ListPriceSource `json:"source"`
}

// NewListPriceChangedEvent creates a new ListPriceChangedEvent
func NewListPriceChangedEvent(p *ProductTemplate, old decimal.Decimal, source ListPriceSource) *ListPriceChangedEvent {
	return &ListPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListPriceChanged, AggregateTypeProductTemplate, p.ID, p.TenantID),
		Code:            p.Code,
		OldListPrice:    old,
		NewListPrice:    p.ListPrice,
		Source:          source,
	}
}

package catalog

import (
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductTemplateRequest represents a request to create a product template
type CreateProductTemplateRequest struct {
	Code               string               `json:"code" binding:"required,min=1,max=50"`
	Name               string               `json:"name" binding:"required,min=1,max=200"`
	CurrencyCode       string               `json:"currency_code" binding:"required,iso4217"`
	CompanyID          *uuid.UUID           `json:"company_id"`
	ListPrice          *decimal.Decimal     `json:"list_price"`
	StandardPrice      *decimal.Decimal     `json:"standard_price"`
	ReplenishmentCost  *decimal.Decimal     `json:"replenishment_cost"`
	TaxIDs             []uuid.UUID          `json:"tax_ids"`
	PackOK             bool                 `json:"pack_ok"`
	PackComponentPrice string               `json:"pack_component_price" binding:"omitempty,oneof=detailed totalized ignored"`
	PlannedPrice       *PlannedPriceRequest `json:"planned_price"`
}

// UpdateProductTemplateRequest represents a request to update a product template
type UpdateProductTemplateRequest struct {
	Name               *string          `json:"name" binding:"omitempty,min=1,max=200"`
	CompanyID          *uuid.UUID       `json:"company_id"`
	ListPrice          *decimal.Decimal `json:"list_price"`
	StandardPrice      *decimal.Decimal `json:"standard_price"`
	ReplenishmentCost  *decimal.Decimal `json:"replenishment_cost"`
	TaxIDs             []uuid.UUID      `json:"tax_ids"`
	PackOK             *bool            `json:"pack_ok"`
	PackComponentPrice *string          `json:"pack_component_price" binding:"omitempty,oneof=detailed totalized ignored"`
}

// PlannedPriceRequest sets the planned price fields
type PlannedPriceRequest struct {
	ListPriceType           string          `json:"list_price_type" binding:"omitempty,list_price_type"`
	ComputedListPriceManual decimal.Decimal `json:"computed_list_price_manual"`
	SaleMargin              decimal.Decimal `json:"sale_margin"`
	SaleSurcharge           decimal.Decimal `json:"sale_surcharge"`
	OtherCurrencyCode       string          `json:"other_currency_code" binding:"omitempty,iso4217"`
	OtherCurrencyListPrice  decimal.Decimal `json:"other_currency_list_price"`
}

// CreateVariantRequest represents a request to add a variant to a template
type CreateVariantRequest struct {
	Code       string          `json:"code" binding:"required,min=1,max=50"`
	PriceExtra decimal.Decimal `json:"price_extra"`
}

// PriceComputeRequest asks for one price of a template or variant
type PriceComputeRequest struct {
	PriceType       string     `form:"price_type" binding:"omitempty,oneof=list_price standard_price computed_list_price"`
	VariantID       *uuid.UUID `form:"variant_id"`
	CurrencyCode    string     `form:"currency" binding:"omitempty,iso4217"`
	UsePlannedPrice bool       `form:"use_planned_price"`
	Date            *time.Time `form:"date" time_format:"2006-01-02"`
}

// PriceComputeResponse is the answer to a PriceComputeRequest
type PriceComputeResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	PriceType    string          `json:"price_type"`
	CurrencyCode string          `json:"currency_code"`
	Price        decimal.Decimal `json:"price"`
}

// ProductTemplateResponse represents a product template in API responses
type ProductTemplateResponse struct {
	ID                      uuid.UUID       `json:"id"`
	TenantID                uuid.UUID       `json:"tenant_id"`
	Code                    string          `json:"code"`
	Name                    string          `json:"name"`
	CompanyID               *uuid.UUID      `json:"company_id"`
	CurrencyCode            string          `json:"currency_code"`
	ListPrice               decimal.Decimal `json:"list_price"`
	StandardPrice           decimal.Decimal `json:"standard_price"`
	ReplenishmentCost       decimal.Decimal `json:"replenishment_cost"`
	TaxIDs                  []uuid.UUID     `json:"tax_ids"`
	PackOK                  bool            `json:"pack_ok"`
	PackComponentPrice      string          `json:"pack_component_price"`
	Active                  bool            `json:"active"`
	ListPriceType           string          `json:"list_price_type"`
	ComputedListPriceManual decimal.Decimal `json:"computed_list_price_manual"`
	ComputedListPrice       decimal.Decimal `json:"computed_list_price"`
	SaleMargin              decimal.Decimal `json:"sale_margin"`
	SaleSurcharge           decimal.Decimal `json:"sale_surcharge"`
	OtherCurrencyCode       string          `json:"other_currency_code"`
	OtherCurrencyListPrice  decimal.Decimal `json:"other_currency_list_price"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
	Version                 int             `json:"version"`
}

// ProductTemplateListFilter represents filter options for the template list
type ProductTemplateListFilter struct {
	Search        string `form:"search"`
	ListPriceType string `form:"list_price_type" binding:"omitempty,list_price_type"`
	Active        *bool  `form:"active"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// VariantResponse represents a product variant in API responses
type VariantResponse struct {
	ID         uuid.UUID       `json:"id"`
	TemplateID uuid.UUID       `json:"template_id"`
	Code       string          `json:"code"`
	PriceExtra decimal.Decimal `json:"price_extra"`
	Active     bool            `json:"active"`
}

// ToProductTemplateResponse converts a domain template with its planned price
func ToProductTemplateResponse(t *catalog.ProductTemplate, planned decimal.Decimal) ProductTemplateResponse {
	taxIDs := make([]uuid.UUID, len(t.TaxIDs))
	copy(taxIDs, t.TaxIDs)
	return ProductTemplateResponse{
		ID:                      t.ID,
		TenantID:                t.TenantID,
		Code:                    t.Code,
		Name:                    t.Name,
		CompanyID:               t.CompanyID,
		CurrencyCode:            t.CurrencyCode.String(),
		ListPrice:               t.ListPrice,
		StandardPrice:           t.StandardPrice,
		ReplenishmentCost:       t.ReplenishmentCost,
		TaxIDs:                  taxIDs,
		PackOK:                  t.PackOK,
		PackComponentPrice:      string(t.PackComponentPrice),
		Active:                  t.Active,
		ListPriceType:           string(t.ListPriceType),
		ComputedListPriceManual: t.ComputedListPriceManual,
		ComputedListPrice:       planned,
		SaleMargin:              t.SaleMargin,
		SaleSurcharge:           t.SaleSurcharge,
		OtherCurrencyCode:       t.OtherCurrencyCode.String(),
		OtherCurrencyListPrice:  t.OtherCurrencyListPrice,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
		Version:                 t.Version,
	}
}

// ToVariantResponse converts a domain variant
func ToVariantResponse(v *catalog.ProductVariant) VariantResponse {
	return VariantResponse{
		ID:         v.ID,
		TemplateID: v.TemplateID,
		Code:       v.Code,
		PriceExtra: v.PriceExtra,
		Active:     v.Active,
	}
}

// settings converts the request to domain settings
func (r PlannedPriceRequest) settings() catalog.PlannedPriceSettings {
	return catalog.PlannedPriceSettings{
		ListPriceType:           catalog.ListPriceType(r.ListPriceType),
		ComputedListPriceManual: r.ComputedListPriceManual,
		SaleMargin:              r.SaleMargin,
		SaleSurcharge:           r.SaleSurcharge,
		OtherCurrencyCode:       r.OtherCurrencyCode,
		OtherCurrencyListPrice:  r.OtherCurrencyListPrice,
	}
}

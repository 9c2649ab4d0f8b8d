package pricing

import (
	"time"

	"github.com/erp/productext/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product models a price request may target
const (
	ProductModelTemplate = "product.template"
	ProductModelVariant  = "product.product"
)

// CreatePricelistRequest represents a request to create a pricelist
type CreatePricelistRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=200"`
	CurrencyCode string     `json:"currency_code" binding:"required,iso4217"`
	CompanyID    *uuid.UUID `json:"company_id"`
}

// PricelistItemRequest represents one pricelist rule
type PricelistItemRequest struct {
	AppliedOn       string          `json:"applied_on" binding:"required,oneof=0_product_variant 1_product 3_global"`
	TemplateID      *uuid.UUID      `json:"template_id"`
	VariantID       *uuid.UUID      `json:"variant_id"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	Base            string          `json:"base" binding:"omitempty,oneof=list_price standard_price pricelist"`
	BasePricelistID *uuid.UUID      `json:"base_pricelist_id"`
	ComputePrice    string          `json:"compute_price" binding:"omitempty,oneof=fixed percentage formula"`
	FixedPrice      decimal.Decimal `json:"fixed_price"`
	PercentPrice    decimal.Decimal `json:"percent_price"`
	PriceDiscount   decimal.Decimal `json:"price_discount"`
	PriceSurcharge  decimal.Decimal `json:"price_surcharge"`
	PriceRound      decimal.Decimal `json:"price_round"`
	PriceMinMargin  decimal.Decimal `json:"price_min_margin"`
	PriceMaxMargin  decimal.Decimal `json:"price_max_margin"`
	DateStart       *time.Time      `json:"date_start"`
	DateEnd         *time.Time      `json:"date_end"`
	Sequence        *int            `json:"sequence"`
}

// ProductsPriceRequest asks for pricelist prices of several products
type ProductsPriceRequest struct {
	Model      string            `json:"model" binding:"omitempty,oneof=product.template product.product"`
	ProductIDs []uuid.UUID       `json:"product_ids" binding:"required,min=1,max=500"`
	Quantities []decimal.Decimal `json:"quantities"`
	// Date defaults to today
	Date            *time.Time `json:"date"`
	TaxesIncluded   bool       `json:"taxes_included"`
	UsePlannedPrice bool       `json:"use_planned_price"`
	CompanyID       *uuid.UUID `json:"company_id"`
}

// ProductPriceRequest asks for the pricelist price of one product
type ProductPriceRequest struct {
	Model           string          `form:"model" binding:"omitempty,oneof=product.template product.product"`
	Quantity        decimal.Decimal `form:"quantity"`
	Date            *time.Time      `form:"date" time_format:"2006-01-02"`
	TaxesIncluded   bool            `form:"taxes_included"`
	UsePlannedPrice bool            `form:"use_planned_price"`
	CompanyID       *uuid.UUID      `form:"company_id"`
}

// ProductPrice is one computed price
type ProductPrice struct {
	ProductID uuid.UUID       `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}

// ProductsPriceResponse lists computed prices in request order
type ProductsPriceResponse struct {
	PricelistID   uuid.UUID      `json:"pricelist_id"`
	CurrencyCode  string         `json:"currency_code"`
	TaxesIncluded bool           `json:"taxes_included"`
	Prices        []ProductPrice `json:"prices"`
}

// PricelistItemResponse represents a pricelist rule in API responses
type PricelistItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	AppliedOn       string          `json:"applied_on"`
	TemplateID      *uuid.UUID      `json:"template_id,omitempty"`
	VariantID       *uuid.UUID      `json:"variant_id,omitempty"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	Base            string          `json:"base"`
	BasePricelistID *uuid.UUID      `json:"base_pricelist_id,omitempty"`
	ComputePrice    string          `json:"compute_price"`
	FixedPrice      decimal.Decimal `json:"fixed_price"`
	PercentPrice    decimal.Decimal `json:"percent_price"`
	PriceDiscount   decimal.Decimal `json:"price_discount"`
	PriceSurcharge  decimal.Decimal `json:"price_surcharge"`
	PriceRound      decimal.Decimal `json:"price_round"`
	PriceMinMargin  decimal.Decimal `json:"price_min_margin"`
	PriceMaxMargin  decimal.Decimal `json:"price_max_margin"`
	DateStart       *time.Time      `json:"date_start,omitempty"`
	DateEnd         *time.Time      `json:"date_end,omitempty"`
	Sequence        int             `json:"sequence"`
}

// PricelistResponse represents a pricelist in API responses
type PricelistResponse struct {
	ID           uuid.UUID               `json:"id"`
	Name         string                  `json:"name"`
	CurrencyCode string                  `json:"currency_code"`
	CompanyID    *uuid.UUID              `json:"company_id,omitempty"`
	Active       bool                    `json:"active"`
	Items        []PricelistItemResponse `json:"items"`
	Version      int                     `json:"version"`
}

// ToPricelistResponse converts a domain pricelist with its items in evaluation order
func ToPricelistResponse(p *pricing.Pricelist) PricelistResponse {
	sorted := p.SortedItems()
	items := make([]PricelistItemResponse, 0, len(sorted))
	for _, item := range sorted {
		items = append(items, PricelistItemResponse{
			ID:              item.ID,
			AppliedOn:       string(item.AppliedOn),
			TemplateID:      item.TemplateID,
			VariantID:       item.VariantID,
			MinQuantity:     item.MinQuantity,
			Base:            string(item.Base),
			BasePricelistID: item.BasePricelistID,
			ComputePrice:    string(item.ComputePrice),
			FixedPrice:      item.FixedPrice,
			PercentPrice:    item.PercentPrice,
			PriceDiscount:   item.PriceDiscount,
			PriceSurcharge:  item.PriceSurcharge,
			PriceRound:      item.PriceRound,
			PriceMinMargin:  item.PriceMinMargin,
			PriceMaxMargin:  item.PriceMaxMargin,
			DateStart:       item.DateStart,
			DateEnd:         item.DateEnd,
			Sequence:        item.Sequence,
		})
	}
	return PricelistResponse{
		ID:           p.ID,
		Name:         p.Name,
		CurrencyCode: p.CurrencyCode.String(),
		CompanyID:    p.CompanyID,
		Active:       p.Active,
		Items:        items,
		Version:      p.Version,
	}
}

// item converts the request to a domain item, filling defaults
func (r PricelistItemRequest) item() pricing.PricelistItem {
	item := pricing.NewGlobalItem()
	item.AppliedOn = pricing.AppliedOn(r.AppliedOn)
	item.TemplateID = r.TemplateID
	item.VariantID = r.VariantID
	item.MinQuantity = r.MinQuantity
	if r.Base != "" {
		item.Base = pricing.PriceBase(r.Base)
	}
	item.BasePricelistID = r.BasePricelistID
	if r.ComputePrice != "" {
		item.ComputePrice = pricing.ComputePrice(r.ComputePrice)
	}
	item.FixedPrice = r.FixedPrice
	item.PercentPrice = r.PercentPrice
	item.PriceDiscount = r.PriceDiscount
	item.PriceSurcharge = r.PriceSurcharge
	item.PriceRound = r.PriceRound
	item.PriceMinMargin = r.PriceMinMargin
	item.PriceMaxMargin = r.PriceMaxMargin
	item.DateStart = r.DateStart
	item.DateEnd = r.DateEnd
	if r.Sequence != nil {
		item.Sequence = *r.Sequence
	}
	return item
}

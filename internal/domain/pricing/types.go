package pricing

import "github.com/erp/productext/internal/domain/catalog"

// AppliedOn is the scope of a pricelist item. Values sort by specificity.
type AppliedOn string

const (
	AppliedOnVariant AppliedOn = "0_product_variant"
	AppliedOnProduct AppliedOn = "1_product"
	AppliedOnGlobal  AppliedOn = "3_global"
)

// IsValid returns true for a known scope
func (a AppliedOn) IsValid() bool {
	switch a {
	case AppliedOnVariant, AppliedOnProduct, AppliedOnGlobal:
		return true
	}
	return false
}

// PriceBase is the price a pricelist item starts from
type PriceBase string

const (
	PriceBaseListPrice     PriceBase = "list_price"
	PriceBaseStandardPrice PriceBase = "standard_price"
	PriceBasePricelist     PriceBase = "pricelist"
)

// IsValid returns true for a known base
func (b PriceBase) IsValid() bool {
	switch b {
	case PriceBaseListPrice, PriceBaseStandardPrice, PriceBasePricelist:
		return true
	}
	return false
}

// PriceType maps a product price base to the catalog price type
func (b PriceBase) PriceType() catalog.PriceType {
	if b == PriceBaseStandardPrice {
		return catalog.PriceTypeStandardPrice
	}
	return catalog.PriceTypeListPrice
}

// ComputePrice is how a pricelist item derives its price
type ComputePrice string

const (
	ComputePriceFixed      ComputePrice = "fixed"
	ComputePricePercentage ComputePrice = "percentage"
	ComputePriceFormula    ComputePrice = "formula"
)

// IsValid returns true for a known computation
func (c ComputePrice) IsValid() bool {
	switch c {
	case ComputePriceFixed, ComputePricePercentage, ComputePriceFormula:
		return true
	}
	return false
}

package catalog

// ListPriceType selects how the planned list price is computed.
// The empty value means the product has no planned price.
type ListPriceType string

const (
	ListPriceTypeNone          ListPriceType = ""
	ListPriceTypeManual        ListPriceType = "manual"
	ListPriceTypeByMargin      ListPriceType = "by_margin"
	ListPriceTypeOtherCurrency ListPriceType = "other_currency"
)

// IsValid returns true for a known type, including none
func (t ListPriceType) IsValid() bool {
	switch t {
	case ListPriceTypeNone, ListPriceTypeManual, ListPriceTypeByMargin, ListPriceTypeOtherCurrency:
		return true
	}
	return false
}

// IsSet returns true when a planned price type is selected
func (t ListPriceType) IsSet() bool {
	return t != ListPriceTypeNone
}

// Label returns the display label
func (t ListPriceType) Label() string {
	switch t {
	case ListPriceTypeManual:
		return "Fixed value"
	case ListPriceTypeByMargin:
		return "By Margin"
	case ListPriceTypeOtherCurrency:
		return "Currency exchange"
	}
	return ""
}

// PackComponentPrice is how a pack prices its components
type PackComponentPrice string

const (
	PackComponentPriceDetailed  PackComponentPrice = "detailed"
	PackComponentPriceTotalized PackComponentPrice = "totalized"
	PackComponentPriceIgnored   PackComponentPrice = "ignored"
)

// IsValid returns true for a known pack pricing mode
func (p PackComponentPrice) IsValid() bool {
	switch p {
	case PackComponentPriceDetailed, PackComponentPriceTotalized, PackComponentPriceIgnored:
		return true
	}
	return false
}

// PriceType names a product price field
type PriceType string

const (
	PriceTypeListPrice         PriceType = "list_price"
	PriceTypeStandardPrice     PriceType = "standard_price"
	PriceTypeComputedListPrice PriceType = "computed_list_price"
)

// IsValid returns true for a known price type
func (p PriceType) IsValid() bool {
	switch p {
	case PriceTypeListPrice, PriceTypeStandardPrice, PriceTypeComputedListPrice:
		return true
	}
	return false
}

package catalog

import (
	"strings"

	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is a concrete variant of a product template
type ProductVariant struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	TemplateID uuid.UUID
	Code       string
	PriceExtra decimal.Decimal
	Active     bool
}

// NewProductVariant creates an active variant of tmpl
func NewProductVariant(tmpl *ProductTemplate, code string, priceExtra decimal.Decimal) (*ProductVariant, error) {
	if tmpl == nil {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Variant requires a product template")
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}
	return &ProductVariant{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tmpl.TenantID,
		TemplateID: tmpl.ID,
		Code:       strings.ToUpper(strings.TrimSpace(code)),
		PriceExtra: priceExtra,
		Active:     true,
	}, nil
}

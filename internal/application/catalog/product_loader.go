package catalog

import (
	"context"
	"errors"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PricedProductLoader assembles templates and variants with the taxes and
// currencies their prices depend on
type PricedProductLoader struct {
	templateRepo catalog.ProductTemplateRepository
	variantRepo  catalog.ProductVariantRepository
	taxRepo      finance.TaxRepository
	currencyRepo finance.CurrencyRepository
}

// NewPricedProductLoader creates a new PricedProductLoader
func NewPricedProductLoader(
	templateRepo catalog.ProductTemplateRepository,
	variantRepo catalog.ProductVariantRepository,
	taxRepo finance.TaxRepository,
	currencyRepo finance.CurrencyRepository,
) *PricedProductLoader {
	return &PricedProductLoader{
		templateRepo: templateRepo,
		variantRepo:  variantRepo,
		taxRepo:      taxRepo,
		currencyRepo: currencyRepo,
	}
}

// Templates wraps already loaded templates
func (l *PricedProductLoader) Templates(ctx context.Context, tenantID uuid.UUID, templates []*catalog.ProductTemplate) ([]*catalog.PricedProduct, error) {
	b := newProductBuilder(l, tenantID)
	if err := b.loadTaxes(ctx, templates); err != nil {
		return nil, err
	}
	products := make([]*catalog.PricedProduct, 0, len(templates))
	for _, tmpl := range templates {
		p, err := b.build(ctx, tmpl, nil)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Template loads one template by ID
func (l *PricedProductLoader) Template(ctx context.Context, tenantID, templateID uuid.UUID) (*catalog.PricedProduct, error) {
	tmpl, err := l.templateRepo.FindByID(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	products, err := l.Templates(ctx, tenantID, []*catalog.ProductTemplate{tmpl})
	if err != nil {
		return nil, err
	}
	return products[0], nil
}

// TemplatesByID loads templates by ID, in the order of ids
func (l *PricedProductLoader) TemplatesByID(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.PricedProduct, error) {
	templates, err := l.templateRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.ProductTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}
	ordered := make([]*catalog.ProductTemplate, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Product template not found: "+id.String())
		}
		ordered = append(ordered, t)
	}
	return l.Templates(ctx, tenantID, ordered)
}

// VariantsByID loads variants with their templates, in the order of ids
func (l *PricedProductLoader) VariantsByID(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*catalog.PricedProduct, error) {
	variants, err := l.variantRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	variantByID := make(map[uuid.UUID]*catalog.ProductVariant, len(variants))
	templateIDs := make([]uuid.UUID, 0, len(variants))
	for _, v := range variants {
		variantByID[v.ID] = v
		templateIDs = append(templateIDs, v.TemplateID)
	}

	templates, err := l.templateRepo.FindByIDs(ctx, tenantID, templateIDs)
	if err != nil {
		return nil, err
	}
	templateByID := make(map[uuid.UUID]*catalog.ProductTemplate, len(templates))
	for _, t := range templates {
		templateByID[t.ID] = t
	}

	b := newProductBuilder(l, tenantID)
	if err := b.loadTaxes(ctx, templates); err != nil {
		return nil, err
	}
	products := make([]*catalog.PricedProduct, 0, len(ids))
	for _, id := range ids {
		v, ok := variantByID[id]
		if !ok {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Product variant not found: "+id.String())
		}
		tmpl, ok := templateByID[v.TemplateID]
		if !ok {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Product template not found: "+v.TemplateID.String())
		}
		p, err := b.build(ctx, tmpl, v)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Variant loads one variant of a template
func (l *PricedProductLoader) Variant(ctx context.Context, tenantID, templateID, variantID uuid.UUID) (*catalog.PricedProduct, error) {
	products, err := l.VariantsByID(ctx, tenantID, []uuid.UUID{variantID})
	if err != nil {
		return nil, err
	}
	if products[0].TemplateID() != templateID {
		return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Variant does not belong to the product template")
	}
	return products[0], nil
}

// productBuilder caches taxes and currencies while building one batch
type productBuilder struct {
	loader     *PricedProductLoader
	tenantID   uuid.UUID
	taxes      map[uuid.UUID]*finance.Tax
	currencies map[valueobject.CurrencyCode]*finance.Currency
}

func newProductBuilder(l *PricedProductLoader, tenantID uuid.UUID) *productBuilder {
	return &productBuilder{
		loader:     l,
		tenantID:   tenantID,
		taxes:      make(map[uuid.UUID]*finance.Tax),
		currencies: make(map[valueobject.CurrencyCode]*finance.Currency),
	}
}

func (b *productBuilder) loadTaxes(ctx context.Context, templates []*catalog.ProductTemplate) error {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, t := range templates {
		for _, id := range t.TaxIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}
	taxes, err := b.loader.taxRepo.FindByIDs(ctx, b.tenantID, ids)
	if err != nil {
		return err
	}
	for _, tax := range taxes {
		b.taxes[tax.ID] = tax
	}
	return nil
}

func (b *productBuilder) build(ctx context.Context, tmpl *catalog.ProductTemplate, variant *catalog.ProductVariant) (*catalog.PricedProduct, error) {
	p := &catalog.PricedProduct{Template: tmpl, Variant: variant}
	for _, id := range tmpl.TaxIDs {
		if tax, ok := b.taxes[id]; ok {
			p.Taxes = append(p.Taxes, tax)
		}
	}

	var err error
	if p.Currency, err = b.currency(ctx, tmpl.CurrencyCode); err != nil {
		return nil, err
	}
	if tmpl.OtherCurrencyCode != "" {
		if p.OtherCurrency, err = b.currency(ctx, tmpl.OtherCurrencyCode); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// currency returns nil for currencies the tenant does not define
func (b *productBuilder) currency(ctx context.Context, code valueobject.CurrencyCode) (*finance.Currency, error) {
	if c, ok := b.currencies[code]; ok {
		return c, nil
	}
	c, err := b.loader.currencyRepo.FindByCode(ctx, b.tenantID, code)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		c = nil
	}
	b.currencies[code] = c
	return c, nil
}

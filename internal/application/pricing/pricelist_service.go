package pricing

import (
	"context"
	"time"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/pricing"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/logger"
	"github.com/erp/productext/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricelistService manages pricelists and answers pricelist price lookups
type PricelistService struct {
	pricelistRepo pricing.PricelistRepository
	loader        *catalogapp.PricedProductLoader
	engine        pricing.Engine
	guard         catalogapp.AccessGuard
	now           func() time.Time
}

// NewPricelistService creates a new PricelistService. engine is usually a
// TaxesIncludedEngine wrapping a RuleEngine.
func NewPricelistService(
	pricelistRepo pricing.PricelistRepository,
	loader *catalogapp.PricedProductLoader,
	engine pricing.Engine,
	guard catalogapp.AccessGuard,
) *PricelistService {
	return &PricelistService{
		pricelistRepo: pricelistRepo,
		loader:        loader,
		engine:        engine,
		guard:         guard,
		now:           time.Now,
	}
}

// Create creates an empty pricelist
func (s *PricelistService) Create(ctx context.Context, actor catalogapp.Actor, req CreatePricelistRequest) (*PricelistResponse, error) {
	if err := s.require(ctx, actor, identity.AccessModeCreate); err != nil {
		return nil, err
	}

	pricelist, err := pricing.NewPricelist(actor.TenantID, req.Name, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	pricelist.CompanyID = req.CompanyID
	if err := s.pricelistRepo.Save(ctx, pricelist); err != nil {
		return nil, err
	}
	response := ToPricelistResponse(pricelist)
	return &response, nil
}

// AddItem appends a rule to a pricelist
func (s *PricelistService) AddItem(ctx context.Context, actor catalogapp.Actor, pricelistID uuid.UUID, req PricelistItemRequest) (*PricelistResponse, error) {
	if err := s.require(ctx, actor, identity.AccessModeWrite); err != nil {
		return nil, err
	}

	pricelist, err := s.pricelistRepo.FindByID(ctx, actor.TenantID, pricelistID)
	if err != nil {
		return nil, err
	}
	if _, err := pricelist.AddItem(req.item()); err != nil {
		return nil, err
	}
	if err := s.pricelistRepo.Save(ctx, pricelist); err != nil {
		return nil, err
	}
	response := ToPricelistResponse(pricelist)
	return &response, nil
}

// RemoveItem drops a rule from a pricelist
func (s *PricelistService) RemoveItem(ctx context.Context, actor catalogapp.Actor, pricelistID, itemID uuid.UUID) (*PricelistResponse, error) {
	if err := s.require(ctx, actor, identity.AccessModeWrite); err != nil {
		return nil, err
	}

	pricelist, err := s.pricelistRepo.FindByID(ctx, actor.TenantID, pricelistID)
	if err != nil {
		return nil, err
	}
	if err := pricelist.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.pricelistRepo.Save(ctx, pricelist); err != nil {
		return nil, err
	}
	response := ToPricelistResponse(pricelist)
	return &response, nil
}

// GetByID returns a pricelist with its rules
func (s *PricelistService) GetByID(ctx context.Context, actor catalogapp.Actor, id uuid.UUID) (*PricelistResponse, error) {
	if err := s.require(ctx, actor, identity.AccessModeRead); err != nil {
		return nil, err
	}

	pricelist, err := s.pricelistRepo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToPricelistResponse(pricelist)
	return &response, nil
}

// List returns a page of pricelists
func (s *PricelistService) List(ctx context.Context, actor catalogapp.Actor, page, pageSize int) (*shared.Paginated[PricelistResponse], error) {
	if err := s.require(ctx, actor, identity.AccessModeRead); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	pricelists, total, err := s.pricelistRepo.FindAll(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PricelistResponse, 0, len(pricelists))
	for _, p := range pricelists {
		items = append(items, ToPricelistResponse(p))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &result, nil
}

// GetProductsPrice returns the pricelist price of each requested product,
// in request order. Missing quantities default to 1.
func (s *PricelistService) GetProductsPrice(ctx context.Context, actor catalogapp.Actor, pricelistID uuid.UUID, req ProductsPriceRequest) (resp *ProductsPriceResponse, err error) {
	labels := telemetry.OperationLabels(telemetry.OperationPricelistProductsPrice, map[string]string{
		telemetry.ProfilingLabelTenantID: actor.TenantID.String(),
	})
	telemetry.WithProfilingLabels(ctx, labels, func(ctx context.Context) {
		resp, err = s.getProductsPrice(ctx, actor, pricelistID, req)
	})
	return resp, err
}

func (s *PricelistService) getProductsPrice(ctx context.Context, actor catalogapp.Actor, pricelistID uuid.UUID, req ProductsPriceRequest) (*ProductsPriceResponse, error) {
	if err := s.require(ctx, actor, identity.AccessModeRead); err != nil {
		return nil, err
	}

	quantities := req.Quantities
	if len(quantities) == 0 {
		quantities = make([]decimal.Decimal, len(req.ProductIDs))
		for i := range quantities {
			quantities[i] = decimal.NewFromInt(1)
		}
	}
	if len(quantities) != len(req.ProductIDs) {
		return nil, pricing.ErrQuantityMismatch
	}

	pricelist, err := s.pricelistRepo.FindByID(ctx, actor.TenantID, pricelistID)
	if err != nil {
		return nil, err
	}
	products, err := s.loadProducts(ctx, actor.TenantID, req.Model, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	opts := s.options(actor, req.Date, req.TaxesIncluded, req.UsePlannedPrice, req.CompanyID)
	prices, err := s.engine.ProductsPrice(ctx, pricelist, products, quantities, opts)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Debug("Computed pricelist prices",
		zap.String("pricelist_id", pricelistID.String()),
		zap.Int("products", len(products)),
		zap.Bool("taxes_included", opts.TaxesIncluded),
	)

	response := &ProductsPriceResponse{
		PricelistID:   pricelist.ID,
		CurrencyCode:  pricelist.CurrencyCode.String(),
		TaxesIncluded: opts.TaxesIncluded,
		Prices:        make([]ProductPrice, 0, len(products)),
	}
	for _, p := range products {
		response.Prices = append(response.Prices, ProductPrice{ProductID: p.ID(), Price: prices[p.ID()]})
	}
	return response, nil
}

// GetProductPrice returns the pricelist price of one product
func (s *PricelistService) GetProductPrice(ctx context.Context, actor catalogapp.Actor, pricelistID, productID uuid.UUID, req ProductPriceRequest) (*ProductPrice, error) {
	if err := s.require(ctx, actor, identity.AccessModeRead); err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity.IsZero() {
		quantity = decimal.NewFromInt(1)
	}

	pricelist, err := s.pricelistRepo.FindByID(ctx, actor.TenantID, pricelistID)
	if err != nil {
		return nil, err
	}
	products, err := s.loadProducts(ctx, actor.TenantID, req.Model, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}

	opts := s.options(actor, req.Date, req.TaxesIncluded, req.UsePlannedPrice, req.CompanyID)
	price, err := s.engine.ProductPrice(ctx, pricelist, products[0], quantity, opts)
	if err != nil {
		return nil, err
	}
	return &ProductPrice{ProductID: products[0].ID(), Price: price}, nil
}

func (s *PricelistService) loadProducts(ctx context.Context, tenantID uuid.UUID, model string, ids []uuid.UUID) ([]*catalog.PricedProduct, error) {
	if model == ProductModelVariant {
		return s.loader.VariantsByID(ctx, tenantID, ids)
	}
	return s.loader.TemplatesByID(ctx, tenantID, ids)
}

// options builds engine options. The actor's company is used unless one is given.
func (s *PricelistService) options(actor catalogapp.Actor, date *time.Time, taxesIncluded, usePlanned bool, companyID *uuid.UUID) pricing.PriceOptions {
	opts := pricing.PriceOptions{
		Date:            s.now(),
		TaxesIncluded:   taxesIncluded,
		CompanyID:       actor.CompanyID,
		UsePlannedPrice: usePlanned,
	}
	if date != nil {
		opts.Date = *date
	}
	if companyID != nil {
		opts.CompanyID = *companyID
	}
	return opts
}

func (s *PricelistService) require(ctx context.Context, actor catalogapp.Actor, mode identity.AccessMode) error {
	_, err := s.guard.Check(ctx, actor.TenantID, actor.UserID, identity.ModelPricelist, mode, true)
	return err
}

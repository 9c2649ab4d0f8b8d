package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/finance"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/domain/shared/valueobject"
	"github.com/erp/productext/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrCompanyRequired is returned when a tenant has no company to price for
var ErrCompanyRequired = shared.NewDomainError("COMPANY_REQUIRED", "The tenant has no company")

// PlannedUpdate is a list price change computed from a planned price
type PlannedUpdate struct {
	Template     *catalog.ProductTemplate
	PlannedPrice decimal.Decimal
}

// PlannedPriceService computes planned prices and copies them into list prices
type PlannedPriceService struct {
	templateRepo catalog.ProductTemplateRepository
	companyRepo  finance.CompanyRepository
	currencyRepo finance.CurrencyRepository
	loader       *PricedProductLoader
	calculator   *catalog.PriceCalculator
	publisher    shared.EventPublisher
	digits       int32
	now          func() time.Time
}

// NewPlannedPriceService creates a new PlannedPriceService. digits is the
// product price precision used to compare planned and list prices.
func NewPlannedPriceService(
	templateRepo catalog.ProductTemplateRepository,
	companyRepo finance.CompanyRepository,
	currencyRepo finance.CurrencyRepository,
	loader *PricedProductLoader,
	calculator *catalog.PriceCalculator,
	publisher shared.EventPublisher,
	digits int32,
) *PlannedPriceService {
	return &PlannedPriceService{
		templateRepo: templateRepo,
		companyRepo:  companyRepo,
		currencyRepo: currencyRepo,
		loader:       loader,
		calculator:   calculator,
		publisher:    publisher,
		digits:       digits,
		now:          time.Now,
	}
}

// ResolveCompany returns companyID when set, else the tenant's first company
func (s *PlannedPriceService) ResolveCompany(ctx context.Context, tenantID, companyID uuid.UUID) (uuid.UUID, error) {
	if companyID != uuid.Nil {
		company, err := s.companyRepo.FindByID(ctx, tenantID, companyID)
		if err != nil {
			return uuid.Nil, err
		}
		return company.ID, nil
	}
	company, err := s.companyRepo.FindFirst(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, ErrCompanyRequired
		}
		return uuid.Nil, err
	}
	return company.ID, nil
}

// ComputePlannedPrices returns the planned price of each product, keyed by template ID
func (s *PlannedPriceService) ComputePlannedPrices(ctx context.Context, companyID uuid.UUID, products []*catalog.PricedProduct) map[uuid.UUID]decimal.Decimal {
	logger.L(ctx).Info("Computing planned prices", zap.Int("products", len(products)))

	date := s.now()
	prices := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.TemplateID()] = s.calculator.PlannedPrice(p, companyID, date)
	}
	return prices
}

// PlanUpdates computes the planned price of each template and keeps those
// whose list price has to change
func (s *PlannedPriceService) PlanUpdates(ctx context.Context, tenantID, companyID uuid.UUID, templates []*catalog.ProductTemplate) ([]PlannedUpdate, error) {
	products, err := s.loader.Templates(ctx, tenantID, templates)
	if err != nil {
		return nil, err
	}
	prices := s.ComputePlannedPrices(ctx, companyID, products)

	updates := make([]PlannedUpdate, 0, len(templates))
	for _, tmpl := range templates {
		planned := prices[tmpl.ID]
		if tmpl.NeedsPlannedPriceUpdate(planned, s.digits) {
			updates = append(updates, PlannedUpdate{Template: tmpl, PlannedPrice: planned})
		}
	}
	return updates, nil
}

// ApplyUpdates writes each planned price with a direct list price update
func (s *PlannedPriceService) ApplyUpdates(ctx context.Context, repo catalog.ProductTemplateRepository, updates []PlannedUpdate) (int, error) {
	for i, u := range updates {
		if err := repo.UpdateListPrice(ctx, u.Template.ID, u.PlannedPrice); err != nil {
			return i, err
		}
		u.Template.ApplyPlannedPrice(u.PlannedPrice)
	}
	return len(updates), nil
}

// PublishUpdates publishes the list price events of applied updates
func (s *PlannedPriceService) PublishUpdates(ctx context.Context, updates []PlannedUpdate) {
	for _, u := range updates {
		events := u.Template.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := s.publisher.Publish(ctx, events...); err != nil {
			logger.L(ctx).Warn("Failed to publish list price events",
				zap.String("template_id", u.Template.ID.String()),
				zap.Error(err),
			)
		}
		u.Template.ClearDomainEvents()
	}
}

// UpdatePricesFromPlanned copies planned prices into list prices where they
// differ at the product price precision, and returns the number of updated
// templates
func (s *PlannedPriceService) UpdatePricesFromPlanned(ctx context.Context, tenantID, companyID uuid.UUID, templates []*catalog.ProductTemplate) (int, error) {
	companyID, err := s.ResolveCompany(ctx, tenantID, companyID)
	if err != nil {
		return 0, err
	}
	updates, err := s.PlanUpdates(ctx, tenantID, companyID, templates)
	if err != nil {
		return 0, err
	}
	n, err := s.ApplyUpdates(ctx, s.templateRepo, updates)
	s.PublishUpdates(ctx, updates[:n])
	return n, err
}

// PlannedPriceOf returns the planned price of a loaded template
func (s *PlannedPriceService) PlannedPriceOf(ctx context.Context, tenantID, companyID uuid.UUID, tmpl *catalog.ProductTemplate) (decimal.Decimal, error) {
	companyID, err := s.ResolveCompany(ctx, tenantID, companyID)
	if err != nil {
		return decimal.Zero, err
	}
	products, err := s.loader.Templates(ctx, tenantID, []*catalog.ProductTemplate{tmpl})
	if err != nil {
		return decimal.Zero, err
	}
	return s.calculator.PlannedPrice(products[0], companyID, s.now()), nil
}

// PriceCompute returns a price of a template or one of its variants
func (s *PlannedPriceService) PriceCompute(ctx context.Context, tenantID, companyID, templateID uuid.UUID, req PriceComputeRequest) (*PriceComputeResponse, error) {
	companyID, err := s.ResolveCompany(ctx, tenantID, companyID)
	if err != nil {
		return nil, err
	}

	var p *catalog.PricedProduct
	if req.VariantID != nil {
		p, err = s.loader.Variant(ctx, tenantID, templateID, *req.VariantID)
	} else {
		p, err = s.loader.Template(ctx, tenantID, templateID)
	}
	if err != nil {
		return nil, err
	}

	opts := catalog.PriceComputeOptions{
		UsePlannedPrice: req.UsePlannedPrice,
		CompanyID:       companyID,
		Date:            s.now(),
	}
	if req.Date != nil {
		opts.Date = *req.Date
	}
	currencyCode := p.Template.CurrencyCode
	if req.CurrencyCode != "" {
		code, err := valueobject.ParseCurrencyCode(req.CurrencyCode)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
		if opts.Currency, err = s.currencyRepo.FindByCode(ctx, tenantID, code); err != nil {
			return nil, err
		}
		currencyCode = code
	}

	priceType := catalog.PriceType(req.PriceType)
	if priceType == "" {
		priceType = catalog.PriceTypeListPrice
	}
	price, err := s.calculator.PriceCompute(p, priceType, opts)
	if err != nil {
		return nil, err
	}
	return &PriceComputeResponse{
		ProductID:    p.ID(),
		PriceType:    string(priceType),
		CurrencyCode: currencyCode.String(),
		Price:        price,
	}, nil
}

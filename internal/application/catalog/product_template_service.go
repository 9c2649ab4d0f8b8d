package catalog

import (
	"context"
	"errors"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductTemplateService handles product template and variant operations.
// Every call is checked against the product model access rules.
type ProductTemplateService struct {
	templateRepo catalog.ProductTemplateRepository
	variantRepo  catalog.ProductVariantRepository
	guard        AccessGuard
	planned      *PlannedPriceService
	publisher    shared.EventPublisher
}

// NewProductTemplateService creates a new ProductTemplateService
func NewProductTemplateService(
	templateRepo catalog.ProductTemplateRepository,
	variantRepo catalog.ProductVariantRepository,
	guard AccessGuard,
	planned *PlannedPriceService,
	publisher shared.EventPublisher,
) *ProductTemplateService {
	return &ProductTemplateService{
		templateRepo: templateRepo,
		variantRepo:  variantRepo,
		guard:        guard,
		planned:      planned,
		publisher:    publisher,
	}
}

// Create creates a new product template
func (s *ProductTemplateService) Create(ctx context.Context, actor Actor, req CreateProductTemplateRequest) (*ProductTemplateResponse, error) {
	if err := actor.require(ctx, s.guard, identity.ModelProductTemplate, identity.AccessModeCreate); err != nil {
		return nil, err
	}

	exists, err := s.templateRepo.ExistsByCode(ctx, actor.TenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	tmpl, err := catalog.NewProductTemplate(actor.TenantID, req.Code, req.Name, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if req.CompanyID != nil {
		if err := tmpl.Update(tmpl.Name, req.CompanyID); err != nil {
			return nil, err
		}
	}
	if err := tmpl.SetPrices(
		valueOrZero(req.ListPrice),
		valueOrZero(req.StandardPrice),
		valueOrZero(req.ReplenishmentCost),
	); err != nil {
		return nil, err
	}
	tmpl.SetTaxes(req.TaxIDs)
	if err := tmpl.SetPack(req.PackOK, catalog.PackComponentPrice(req.PackComponentPrice)); err != nil {
		return nil, err
	}
	if req.PlannedPrice != nil {
		if err := tmpl.ConfigurePlannedPrice(req.PlannedPrice.settings()); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return nil, err
	}
	s.publish(ctx, tmpl)

	logger.L(ctx).Info("Product template created",
		zap.String("template_id", tmpl.ID.String()),
		zap.String("code", tmpl.Code),
	)
	return s.response(ctx, actor, tmpl)
}

// Update changes descriptive fields, prices, taxes and pack settings
func (s *ProductTemplateService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateProductTemplateRequest) (*ProductTemplateResponse, error) {
	if err := actor.require(ctx, s.guard, identity.ModelProductTemplate, identity.AccessModeWrite); err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.CompanyID != nil {
		name := tmpl.Name
		if req.Name != nil {
			name = *req.Name
		}
		companyID := tmpl.CompanyID
		if req.CompanyID != nil {
			companyID = req.CompanyID
		}
		if err := tmpl.Update(name, companyID); err != nil {
			return nil, err
		}
	}

	if req.ListPrice != nil || req.StandardPrice != nil || req.ReplenishmentCost != nil {
		listPrice, standardPrice, replenishment := tmpl.ListPrice, tmpl.StandardPrice, tmpl.ReplenishmentCost
		if req.ListPrice != nil {
			listPrice = *req.ListPrice
		}
		if req.StandardPrice != nil {
			standardPrice = *req.StandardPrice
		}
		if req.ReplenishmentCost != nil {
			replenishment = *req.ReplenishmentCost
		}
		if err := tmpl.SetPrices(listPrice, standardPrice, replenishment); err != nil {
			return nil, err
		}
	}

	if req.TaxIDs != nil {
		tmpl.SetTaxes(req.TaxIDs)
	}

	if req.PackOK != nil || req.PackComponentPrice != nil {
		packOK, mode := tmpl.PackOK, tmpl.PackComponentPrice
		if req.PackOK != nil {
			packOK = *req.PackOK
		}
		if req.PackComponentPrice != nil {
			mode = catalog.PackComponentPrice(*req.PackComponentPrice)
		}
		if err := tmpl.SetPack(packOK, mode); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return nil, err
	}
	s.publish(ctx, tmpl)
	return s.response(ctx, actor, tmpl)
}

// ConfigurePlannedPrice replaces the planned price settings of a template
func (s *ProductTemplateService) ConfigurePlannedPrice(ctx context.Context, actor Actor, id uuid.UUID, req PlannedPriceRequest) (*ProductTemplateResponse, error) {
	if err := actor.require(ctx, s.guard, identity.ModelProductTemplate, identity.AccessModeWrite); err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := tmpl.ConfigurePlannedPrice(req.settings()); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return nil, err
	}
	s.publish(ctx, tmpl)
	return s.response(ctx, actor, tmpl)
}

// UpdateFromPlanned copies the planned price of one template into its list price
func (s *ProductTemplateService) UpdateFromPlanned(ctx context.Context, actor Actor, id uuid.UUID) (*ProductTemplateResponse, error) {
	if err := actor.require(ctx, s.guard, identity.ModelProductTemplate, identity.AccessModeWrite); err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.planned.UpdatePricesFromPlanned(ctx, actor.TenantID, actor.CompanyID, []*catalog.ProductTemplate{tmpl}); err != nil {
		return nil, err
	}
	return s.response(ctx, actor, tmpl)
}

// Archive deactivates a template
func (s *ProductTemplateService) Archive(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := actor.require(ctx, s.guard, identity.ModelProductTemplate, identity.AccessModeUnlink); err != nil {
		return err
	}

	tmpl, err := s.templateRepo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	tmpl.Archive()
	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return err
	}
	s.publish(ctx, tmpl)
	return nil
}

// GetByID returns a template with its current planned price
func (s *ProductTemplateService) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*ProductTemplateResponse, error) {
	if err := actor.require(ctx, s.guard, identity.ModelProductTemplate, identity.AccessModeRead); err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, actor, tmpl)
}

// List returns a page of templates with their planned prices
func (s *ProductTemplateService) List(ctx context.Context, actor Actor, filter ProductTemplateListFilter) (*shared.Paginated[ProductTemplateResponse], error) {
	if err := actor.require(ctx, s.guard, identity.ModelProductTemplate, identity.AccessModeRead); err != nil {
		return nil, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "code"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.ListPriceType != "" {
		domainFilter.Filters["list_price_type"] = filter.ListPriceType
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	templates, total, err := s.templateRepo.FindAll(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	companyID, err := s.planned.ResolveCompany(ctx, actor.TenantID, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	products, err := s.planned.loader.Templates(ctx, actor.TenantID, templates)
	if err != nil {
		return nil, err
	}
	prices := s.planned.ComputePlannedPrices(ctx, companyID, products)

	items := make([]ProductTemplateResponse, 0, len(templates))
	for _, tmpl := range templates {
		items = append(items, ToProductTemplateResponse(tmpl, prices[tmpl.ID]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// PriceCompute returns a price of a template or one of its variants
func (s *ProductTemplateService) PriceCompute(ctx context.Context, actor Actor, id uuid.UUID, req PriceComputeRequest) (*PriceComputeResponse, error) {
	if err := actor.require(ctx, s.guard, identity.ModelProductTemplate, identity.AccessModeRead); err != nil {
		return nil, err
	}
	return s.planned.PriceCompute(ctx, actor.TenantID, actor.CompanyID, id, req)
}

// CreateVariant adds a variant to a template
func (s *ProductTemplateService) CreateVariant(ctx context.Context, actor Actor, templateID uuid.UUID, req CreateVariantRequest) (*VariantResponse, error) {
	if err := actor.require(ctx, s.guard, identity.ModelProductProduct, identity.AccessModeCreate); err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.FindByID(ctx, actor.TenantID, templateID)
	if err != nil {
		return nil, err
	}
	variant, err := catalog.NewProductVariant(tmpl, req.Code, req.PriceExtra)
	if err != nil {
		return nil, err
	}
	if err := s.variantRepo.Save(ctx, variant); err != nil {
		return nil, err
	}
	response := ToVariantResponse(variant)
	return &response, nil
}

// ListVariants returns the variants of a template
func (s *ProductTemplateService) ListVariants(ctx context.Context, actor Actor, templateID uuid.UUID) ([]VariantResponse, error) {
	if err := actor.require(ctx, s.guard, identity.ModelProductProduct, identity.AccessModeRead); err != nil {
		return nil, err
	}

	if _, err := s.templateRepo.FindByID(ctx, actor.TenantID, templateID); err != nil {
		return nil, err
	}
	variants, err := s.variantRepo.FindByTemplate(ctx, actor.TenantID, templateID)
	if err != nil {
		return nil, err
	}
	responses := make([]VariantResponse, 0, len(variants))
	for _, v := range variants {
		responses = append(responses, ToVariantResponse(v))
	}
	return responses, nil
}

func (s *ProductTemplateService) response(ctx context.Context, actor Actor, tmpl *catalog.ProductTemplate) (*ProductTemplateResponse, error) {
	planned, err := s.planned.PlannedPriceOf(ctx, actor.TenantID, actor.CompanyID, tmpl)
	if err != nil && !errors.Is(err, ErrCompanyRequired) {
		return nil, err
	}
	response := ToProductTemplateResponse(tmpl, planned)
	return &response, nil
}

func (s *ProductTemplateService) publish(ctx context.Context, tmpl *catalog.ProductTemplate) {
	events := tmpl.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Failed to publish product template events",
			zap.String("template_id", tmpl.ID.String()),
			zap.Error(err),
		)
	}
	tmpl.ClearDomainEvents()
}

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}

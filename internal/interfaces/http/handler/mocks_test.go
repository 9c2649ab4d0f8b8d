package handler

import (
	"context"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	identityapp "github.com/erp/productext/internal/application/identity"
	pricingapp "github.com/erp/productext/internal/application/pricing"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProductTemplateUseCase struct {
	mock.Mock
}

func (m *MockProductTemplateUseCase) Create(ctx context.Context, actor catalogapp.Actor, req catalogapp.CreateProductTemplateRequest) (*catalogapp.ProductTemplateResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductTemplateResponse), args.Error(1)
}

func (m *MockProductTemplateUseCase) Update(ctx context.Context, actor catalogapp.Actor, id uuid.UUID, req catalogapp.UpdateProductTemplateRequest) (*catalogapp.ProductTemplateResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductTemplateResponse), args.Error(1)
}

func (m *MockProductTemplateUseCase) ConfigurePlannedPrice(ctx context.Context, actor catalogapp.Actor, id uuid.UUID, req catalogapp.PlannedPriceRequest) (*catalogapp.ProductTemplateResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductTemplateResponse), args.Error(1)
}

func (m *MockProductTemplateUseCase) UpdateFromPlanned(ctx context.Context, actor catalogapp.Actor, id uuid.UUID) (*catalogapp.ProductTemplateResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductTemplateResponse), args.Error(1)
}

func (m *MockProductTemplateUseCase) Archive(ctx context.Context, actor catalogapp.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockProductTemplateUseCase) GetByID(ctx context.Context, actor catalogapp.Actor, id uuid.UUID) (*catalogapp.ProductTemplateResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductTemplateResponse), args.Error(1)
}

func (m *MockProductTemplateUseCase) List(ctx context.Context, actor catalogapp.Actor, filter catalogapp.ProductTemplateListFilter) (*shared.Paginated[catalogapp.ProductTemplateResponse], error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalogapp.ProductTemplateResponse]), args.Error(1)
}

func (m *MockProductTemplateUseCase) PriceCompute(ctx context.Context, actor catalogapp.Actor, id uuid.UUID, req catalogapp.PriceComputeRequest) (*catalogapp.PriceComputeResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.PriceComputeResponse), args.Error(1)
}

func (m *MockProductTemplateUseCase) CreateVariant(ctx context.Context, actor catalogapp.Actor, templateID uuid.UUID, req catalogapp.CreateVariantRequest) (*catalogapp.VariantResponse, error) {
	args := m.Called(ctx, actor, templateID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.VariantResponse), args.Error(1)
}

func (m *MockProductTemplateUseCase) ListVariants(ctx context.Context, actor catalogapp.Actor, templateID uuid.UUID) ([]catalogapp.VariantResponse, error) {
	args := m.Called(ctx, actor, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.VariantResponse), args.Error(1)
}

type MockPricelistUseCase struct {
	mock.Mock
}

func (m *MockPricelistUseCase) Create(ctx context.Context, actor catalogapp.Actor, req pricingapp.CreatePricelistRequest) (*pricingapp.PricelistResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.PricelistResponse), args.Error(1)
}

func (m *MockPricelistUseCase) AddItem(ctx context.Context, actor catalogapp.Actor, pricelistID uuid.UUID, req pricingapp.PricelistItemRequest) (*pricingapp.PricelistResponse, error) {
	args := m.Called(ctx, actor, pricelistID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.PricelistResponse), args.Error(1)
}

func (m *MockPricelistUseCase) RemoveItem(ctx context.Context, actor catalogapp.Actor, pricelistID, itemID uuid.UUID) (*pricingapp.PricelistResponse, error) {
	args := m.Called(ctx, actor, pricelistID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.PricelistResponse), args.Error(1)
}

func (m *MockPricelistUseCase) GetByID(ctx context.Context, actor catalogapp.Actor, id uuid.UUID) (*pricingapp.PricelistResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.PricelistResponse), args.Error(1)
}

func (m *MockPricelistUseCase) List(ctx context.Context, actor catalogapp.Actor, page, pageSize int) (*shared.Paginated[pricingapp.PricelistResponse], error) {
	args := m.Called(ctx, actor, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[pricingapp.PricelistResponse]), args.Error(1)
}

func (m *MockPricelistUseCase) GetProductsPrice(ctx context.Context, actor catalogapp.Actor, pricelistID uuid.UUID, req pricingapp.ProductsPriceRequest) (*pricingapp.ProductsPriceResponse, error) {
	args := m.Called(ctx, actor, pricelistID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.ProductsPriceResponse), args.Error(1)
}

func (m *MockPricelistUseCase) GetProductPrice(ctx context.Context, actor catalogapp.Actor, pricelistID, productID uuid.UUID, req pricingapp.ProductPriceRequest) (*pricingapp.ProductPrice, error) {
	args := m.Called(ctx, actor, pricelistID, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.ProductPrice), args.Error(1)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.LoginResult), args.Error(1)
}

func (m *MockAuthUseCase) GetCurrentUser(ctx context.Context, tenantID, userID uuid.UUID) (*identityapp.UserInfo, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserInfo), args.Error(1)
}

type MockPlannedPriceRunner struct {
	mock.Mock
}

func (m *MockPlannedPriceRunner) Run(ctx context.Context, tenantID uuid.UUID, opts catalogapp.RunOptions) (*catalogapp.BatchResult, error) {
	args := m.Called(ctx, tenantID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.BatchResult), args.Error(1)
}

func (m *MockPlannedPriceRunner) RunUntilDone(ctx context.Context, tenantID uuid.UUID, opts catalogapp.RunOptions) ([]*catalogapp.BatchResult, error) {
	args := m.Called(ctx, tenantID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalogapp.BatchResult), args.Error(1)
}

type MockRunQueue struct {
	mock.Mock
}

func (m *MockRunQueue) RunNow(tenantID uuid.UUID) error {
	return m.Called(tenantID).Error(0)
}

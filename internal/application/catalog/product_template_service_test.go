package catalog

import (
	"context"
	"testing"

	"github.com/erp/productext/internal/domain/catalog"
	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type templateServiceFixture struct {
	*serviceFixture
	guard   *MockAccessGuard
	actor   Actor
	service *ProductTemplateService
}

func newTemplateServiceFixture(t *testing.T) *templateServiceFixture {
	t.Helper()
	f := &templateServiceFixture{
		serviceFixture: newServiceFixture(t),
		guard:          new(MockAccessGuard),
	}
	f.actor = Actor{TenantID: f.tenantID, UserID: uuid.New()}
	f.service = NewProductTemplateService(f.templates, f.variants, f.guard, f.planned, f.publisher)
	return f
}

func (f *templateServiceFixture) allow(model string, mode identity.AccessMode) {
	f.guard.On("Check", mock.Anything, f.tenantID, f.actor.UserID, model, mode, true).Return(true, nil)
}

func TestProductTemplateService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with planned price", func(t *testing.T) {
		f := newTemplateServiceFixture(t)
		f.allow(identity.ModelProductTemplate, identity.AccessModeCreate)
		f.templates.On("ExistsByCode", ctx, f.tenantID, "sku-1").Return(false, nil)
		f.templates.On("Save", ctx, mock.AnythingOfType("*catalog.ProductTemplate")).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

		listPrice := d("100")
		replenishment := d("50")
		resp, err := f.service.Create(ctx, f.actor, CreateProductTemplateRequest{
			Code:              "sku-1",
			Name:              "Widget",
			CurrencyCode:      "USD",
			ListPrice:         &listPrice,
			ReplenishmentCost: &replenishment,
			PlannedPrice: &PlannedPriceRequest{
				ListPriceType: "by_margin",
				SaleMargin:    d("20"),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", resp.Code)
		assert.Equal(t, "by_margin", resp.ListPriceType)
		assert.Equal(t, "detailed", resp.PackComponentPrice)
		assert.True(t, resp.ListPrice.Equal(d("100")))
		assert.True(t, resp.ComputedListPrice.Equal(d("60")))
		f.publisher.AssertExpectations(t)
	})

	t.Run("duplicate code", func(t *testing.T) {
		f := newTemplateServiceFixture(t)
		f.allow(identity.ModelProductTemplate, identity.AccessModeCreate)
		f.templates.On("ExistsByCode", ctx, f.tenantID, "SKU-1").Return(true, nil)

		_, err := f.service.Create(ctx, f.actor, CreateProductTemplateRequest{Code: "SKU-1", Name: "Widget", CurrencyCode: "USD"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.templates.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("access denied", func(t *testing.T) {
		f := newTemplateServiceFixture(t)
		f.guard.On("Check", mock.Anything, f.tenantID, f.actor.UserID, identity.ModelProductTemplate, identity.AccessModeCreate, true).
			Return(false, identity.ErrProductManagementDenied)

		_, err := f.service.Create(ctx, f.actor, CreateProductTemplateRequest{Code: "SKU-1", Name: "Widget", CurrencyCode: "USD"})
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
		f.templates.AssertNotCalled(t, "ExistsByCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid planned price", func(t *testing.T) {
		f := newTemplateServiceFixture(t)
		f.allow(identity.ModelProductTemplate, identity.AccessModeCreate)
		f.templates.On("ExistsByCode", ctx, f.tenantID, "SKU-1").Return(false, nil)

		_, err := f.service.Create(ctx, f.actor, CreateProductTemplateRequest{
			Code:         "SKU-1",
			Name:         "Widget",
			CurrencyCode: "USD",
			PlannedPrice: &PlannedPriceRequest{ListPriceType: "other_currency"},
		})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "CURRENCY_REQUIRED", de.Code)
	})
}

func TestProductTemplateService_Update(t *testing.T) {
	ctx := context.Background()
	f := newTemplateServiceFixture(t)
	f.allow(identity.ModelProductTemplate, identity.AccessModeWrite)

	tmpl := f.marginTemplate(t, "A", 1, "100", "28", "100")
	f.templates.On("FindByID", ctx, f.tenantID, tmpl.ID).Return(tmpl, nil)
	f.templates.On("Save", ctx, tmpl).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	name := "Renamed"
	listPrice := d("150")
	packOK := true
	resp, err := f.service.Update(ctx, f.actor, tmpl.ID, UpdateProductTemplateRequest{
		Name:      &name,
		ListPrice: &listPrice,
		PackOK:    &packOK,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.Name)
	assert.True(t, resp.ListPrice.Equal(d("150")))
	assert.True(t, resp.ReplenishmentCost.Equal(d("100")))
	assert.True(t, resp.PackOK)
	assert.True(t, resp.ComputedListPrice.Equal(d("128")))
}

func TestProductTemplateService_ConfigurePlannedPrice(t *testing.T) {
	ctx := context.Background()
	f := newTemplateServiceFixture(t)
	f.allow(identity.ModelProductTemplate, identity.AccessModeWrite)

	tmpl := f.marginTemplate(t, "A", 1, "100", "28", "100")
	f.templates.On("FindByID", ctx, f.tenantID, tmpl.ID).Return(tmpl, nil)
	f.templates.On("Save", ctx, tmpl).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := f.service.ConfigurePlannedPrice(ctx, f.actor, tmpl.ID, PlannedPriceRequest{
		ListPriceType:           "manual",
		ComputedListPriceManual: d("42"),
	})
	require.NoError(t, err)
	assert.Equal(t, "manual", resp.ListPriceType)
	assert.True(t, resp.ComputedListPrice.Equal(d("42")))
}

func TestProductTemplateService_UpdateFromPlanned(t *testing.T) {
	ctx := context.Background()
	f := newTemplateServiceFixture(t)
	f.allow(identity.ModelProductTemplate, identity.AccessModeWrite)

	tmpl := f.marginTemplate(t, "A", 1, "100", "28", "100")
	f.templates.On("FindByID", ctx, f.tenantID, tmpl.ID).Return(tmpl, nil)
	f.templates.On("UpdateListPrice", ctx, tmpl.ID, decEq("128")).Return(nil).Once()
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := f.service.UpdateFromPlanned(ctx, f.actor, tmpl.ID)
	require.NoError(t, err)
	assert.True(t, resp.ListPrice.Equal(d("128")))
	f.templates.AssertExpectations(t)
}

func TestProductTemplateService_Archive(t *testing.T) {
	ctx := context.Background()
	f := newTemplateServiceFixture(t)
	f.allow(identity.ModelProductTemplate, identity.AccessModeUnlink)

	tmpl := f.marginTemplate(t, "A", 1, "100", "28", "100")
	f.templates.On("FindByID", ctx, f.tenantID, tmpl.ID).Return(tmpl, nil)
	f.templates.On("Save", ctx, tmpl).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	require.NoError(t, f.service.Archive(ctx, f.actor, tmpl.ID))
	assert.False(t, tmpl.Active)
}

func TestProductTemplateService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newTemplateServiceFixture(t)
		f.allow(identity.ModelProductTemplate, identity.AccessModeRead)
		tmpl := f.marginTemplate(t, "A", 1, "100", "28", "100")
		f.templates.On("FindByID", ctx, f.tenantID, tmpl.ID).Return(tmpl, nil)

		resp, err := f.service.GetByID(ctx, f.actor, tmpl.ID)
		require.NoError(t, err)
		assert.Equal(t, tmpl.ID, resp.ID)
		assert.True(t, resp.ComputedListPrice.Equal(d("128")))
	})

	t.Run("not found", func(t *testing.T) {
		f := newTemplateServiceFixture(t)
		f.allow(identity.ModelProductTemplate, identity.AccessModeRead)
		id := uuid.New()
		f.templates.On("FindByID", ctx, f.tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.GetByID(ctx, f.actor, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductTemplateService_List(t *testing.T) {
	ctx := context.Background()
	f := newTemplateServiceFixture(t)
	f.allow(identity.ModelProductTemplate, identity.AccessModeRead)

	a := f.marginTemplate(t, "A", 1, "100", "28", "100")
	b := f.marginTemplate(t, "B", 2, "10", "50", "100")
	active := true
	f.templates.On("FindAll", ctx, f.tenantID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 1 && filter.PageSize == 20 && filter.OrderBy == "code" &&
			filter.Filters["list_price_type"] == "by_margin" && filter.Filters["active"] == true
	})).Return([]*catalog.ProductTemplate{a, b}, int64(2), nil)

	page, err := f.service.List(ctx, f.actor, ProductTemplateListFilter{ListPriceType: "by_margin", Active: &active})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.True(t, page.Items[0].ComputedListPrice.Equal(d("128")))
	assert.True(t, page.Items[1].ComputedListPrice.Equal(d("15")))
}

func TestProductTemplateService_Variants(t *testing.T) {
	ctx := context.Background()
	f := newTemplateServiceFixture(t)
	f.allow(identity.ModelProductProduct, identity.AccessModeCreate)
	f.allow(identity.ModelProductProduct, identity.AccessModeRead)

	tmpl := f.marginTemplate(t, "A", 1, "100", "28", "100")
	f.templates.On("FindByID", ctx, f.tenantID, tmpl.ID).Return(tmpl, nil)

	var saved *catalog.ProductVariant
	f.variants.On("Save", ctx, mock.AnythingOfType("*catalog.ProductVariant")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*catalog.ProductVariant) }).
		Return(nil)

	resp, err := f.service.CreateVariant(ctx, f.actor, tmpl.ID, CreateVariantRequest{Code: "a-red", PriceExtra: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "A-RED", resp.Code)
	assert.Equal(t, tmpl.ID, resp.TemplateID)

	f.variants.On("FindByTemplate", ctx, f.tenantID, tmpl.ID).Return([]*catalog.ProductVariant{saved}, nil)
	list, err := f.service.ListVariants(ctx, f.actor, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
}

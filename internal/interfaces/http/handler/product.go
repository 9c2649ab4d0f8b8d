package handler

import (
	"context"
	"time"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductTemplateUseCase is the catalog service the product handler serves
type ProductTemplateUseCase interface {
	Create(ctx context.Context, actor catalogapp.Actor, req catalogapp.CreateProductTemplateRequest) (*catalogapp.ProductTemplateResponse, error)
	Update(ctx context.Context, actor catalogapp.Actor, id uuid.UUID, req catalogapp.UpdateProductTemplateRequest) (*catalogapp.ProductTemplateResponse, error)
	ConfigurePlannedPrice(ctx context.Context, actor catalogapp.Actor, id uuid.UUID, req catalogapp.PlannedPriceRequest) (*catalogapp.ProductTemplateResponse, error)
	UpdateFromPlanned(ctx context.Context, actor catalogapp.Actor, id uuid.UUID) (*catalogapp.ProductTemplateResponse, error)
	Archive(ctx context.Context, actor catalogapp.Actor, id uuid.UUID) error
	GetByID(ctx context.Context, actor catalogapp.Actor, id uuid.UUID) (*catalogapp.ProductTemplateResponse, error)
	List(ctx context.Context, actor catalogapp.Actor, filter catalogapp.ProductTemplateListFilter) (*shared.Paginated[catalogapp.ProductTemplateResponse], error)
	PriceCompute(ctx context.Context, actor catalogapp.Actor, id uuid.UUID, req catalogapp.PriceComputeRequest) (*catalogapp.PriceComputeResponse, error)
	CreateVariant(ctx context.Context, actor catalogapp.Actor, templateID uuid.UUID, req catalogapp.CreateVariantRequest) (*catalogapp.VariantResponse, error)
	ListVariants(ctx context.Context, actor catalogapp.Actor, templateID uuid.UUID) ([]catalogapp.VariantResponse, error)
}

// ProductHandler serves product templates, their planned prices and variants
type ProductHandler struct {
	BaseHandler
	products ProductTemplateUseCase
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductTemplateUseCase) *ProductHandler {
	return &ProductHandler{products: products}
}

// priceComputeQuery is the query string of GET /products/:id/price
type priceComputeQuery struct {
	PriceType       string `form:"price_type" binding:"omitempty,oneof=list_price standard_price computed_list_price"`
	VariantID       string `form:"variant_id" binding:"omitempty,uuid"`
	Currency        string `form:"currency" binding:"omitempty,iso4217"`
	UsePlannedPrice bool   `form:"use_planned_price"`
	Date            string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

func (q priceComputeQuery) request() catalogapp.PriceComputeRequest {
	req := catalogapp.PriceComputeRequest{
		PriceType:       q.PriceType,
		CurrencyCode:    q.Currency,
		UsePlannedPrice: q.UsePlannedPrice,
	}
	if q.VariantID != "" {
		id := uuid.MustParse(q.VariantID)
		req.VariantID = &id
	}
	if q.Date != "" {
		// validated by the datetime binding
		date, _ := time.Parse(time.DateOnly, q.Date)
		req.Date = &date
	}
	return req
}

// Create godoc
// @Summary      Create a product template
// @Description  Create a product template in the catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductTemplateRequest true "Product template creation request"
// @Success      201 {object} dto.Response{data=catalogapp.ProductTemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get product template by ID
// @Description  Retrieve a product template by its ID
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product template ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductTemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
// @Summary      List product templates
// @Description  List product templates with filtering and pagination
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        search query string false "Search by code or name"
// @Param        list_price_type query string false "Filter by list price type" Enums(manual, by_margin, other_currency)
// @Param        active query bool false "Filter by active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductTemplateResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter catalogapp.ProductTemplateListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.products.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update godoc
// @Summary      Update a product template
// @Description  Update the name, prices or taxes of a product template
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product template ID" format(uuid)
// @Param        request body catalogapp.UpdateProductTemplateRequest true "Product template update request"
// @Success      200 {object} dto.Response{data=catalogapp.ProductTemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Archive godoc
// @Summary      Archive a product template
// @Description  Deactivate a product template; it is kept for history
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product template ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Archive(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.products.Archive(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfigurePlannedPrice godoc
// @Summary      Configure the planned price
// @Description  Set the list price type, margin and rounding used to plan the list price
// @Tags         planned-price
// @Accept       json
// @Produce      json
// @Param        id path string true "Product template ID" format(uuid)
// @Param        request body catalogapp.PlannedPriceRequest true "Planned price configuration"
// @Success      200 {object} dto.Response{data=catalogapp.ProductTemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/planned-price [put]
func (h *ProductHandler) ConfigurePlannedPrice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PlannedPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.products.ConfigurePlannedPrice(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// UpdateFromPlanned godoc
// @Summary      Apply the planned price
// @Description  Copy the planned price of one product template into its list price
// @Tags         planned-price
// @Accept       json
// @Produce      json
// @Param        id path string true "Product template ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductTemplateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/update-from-planned [post]
func (h *ProductHandler) UpdateFromPlanned(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.products.UpdateFromPlanned(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// PriceCompute godoc
// @Summary      Compute a product price
// @Description  Compute the list, cost or planned price of a product template or one of its variants
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product template ID" format(uuid)
// @Param        price_type query string false "Price field" Enums(list_price, standard_price, computed_list_price) default(list_price)
// @Param        variant_id query string false "Variant ID" format(uuid)
// @Param        currency query string false "Target currency (ISO 4217)"
// @Param        use_planned_price query bool false "Use the planned price instead of the list price"
// @Param        date query string false "Conversion date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=catalogapp.PriceComputeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/price [get]
func (h *ProductHandler) PriceCompute(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var query priceComputeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	price, err := h.products.PriceCompute(c.Request.Context(), actor, id, query.request())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, price)
}

// CreateVariant godoc
// @Summary      Create a product variant
// @Description  Create a variant of a product template with its price extra
// @Tags         variants
// @Accept       json
// @Produce      json
// @Param        id path string true "Product template ID" format(uuid)
// @Param        request body catalogapp.CreateVariantRequest true "Variant creation request"
// @Success      201 {object} dto.Response{data=catalogapp.VariantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/variants [post]
func (h *ProductHandler) CreateVariant(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	variant, err := h.products.CreateVariant(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, variant)
}

// ListVariants godoc
// @Summary      List product variants
// @Description  List the variants of a product template
// @Tags         variants
// @Accept       json
// @Produce      json
// @Param        id path string true "Product template ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.VariantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/products/{id}/variants [get]
func (h *ProductHandler) ListVariants(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	variants, err := h.products.ListVariants(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variants)
}

package handler

import (
	"context"
	"time"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	pricingapp "github.com/erp/productext/internal/application/pricing"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricelistUseCase is the pricing service the pricelist handler serves
type PricelistUseCase interface {
	Create(ctx context.Context, actor catalogapp.Actor, req pricingapp.CreatePricelistRequest) (*pricingapp.PricelistResponse, error)
	AddItem(ctx context.Context, actor catalogapp.Actor, pricelistID uuid.UUID, req pricingapp.PricelistItemRequest) (*pricingapp.PricelistResponse, error)
	RemoveItem(ctx context.Context, actor catalogapp.Actor, pricelistID, itemID uuid.UUID) (*pricingapp.PricelistResponse, error)
	GetByID(ctx context.Context, actor catalogapp.Actor, id uuid.UUID) (*pricingapp.PricelistResponse, error)
	List(ctx context.Context, actor catalogapp.Actor, page, pageSize int) (*shared.Paginated[pricingapp.PricelistResponse], error)
	GetProductsPrice(ctx context.Context, actor catalogapp.Actor, pricelistID uuid.UUID, req pricingapp.ProductsPriceRequest) (*pricingapp.ProductsPriceResponse, error)
	GetProductPrice(ctx context.Context, actor catalogapp.Actor, pricelistID, productID uuid.UUID, req pricingapp.ProductPriceRequest) (*pricingapp.ProductPrice, error)
}

// PricelistHandler serves pricelists and pricelist price lookups
type PricelistHandler struct {
	BaseHandler
	pricelists PricelistUseCase
}

// NewPricelistHandler creates a new PricelistHandler
func NewPricelistHandler(pricelists PricelistUseCase) *PricelistHandler {
	return &PricelistHandler{pricelists: pricelists}
}

type pageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// productPriceQuery is the query string of GET /pricelists/:id/products/:product_id/price
type productPriceQuery struct {
	Model           string `form:"model" binding:"omitempty,oneof=product.template product.product"`
	Quantity        string `form:"quantity" binding:"omitempty,number"`
	Date            string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	TaxesIncluded   bool   `form:"taxes_included"`
	UsePlannedPrice bool   `form:"use_planned_price"`
	CompanyID       string `form:"company_id" binding:"omitempty,uuid"`
}

func (q productPriceQuery) request() pricingapp.ProductPriceRequest {
	req := pricingapp.ProductPriceRequest{
		Model:           q.Model,
		TaxesIncluded:   q.TaxesIncluded,
		UsePlannedPrice: q.UsePlannedPrice,
	}
	if q.Quantity != "" {
		req.Quantity, _ = decimal.NewFromString(q.Quantity)
	}
	if q.Date != "" {
		date, _ := time.Parse(time.DateOnly, q.Date)
		req.Date = &date
	}
	if q.CompanyID != "" {
		id := uuid.MustParse(q.CompanyID)
		req.CompanyID = &id
	}
	return req
}

// Create godoc
// @Summary      Create a pricelist
// @Description  Create a pricelist in a currency
// @Tags         pricelists
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.CreatePricelistRequest true "Pricelist creation request"
// @Success      201 {object} dto.Response{data=pricingapp.PricelistResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/pricelists [post]
func (h *PricelistHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req pricingapp.CreatePricelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	pricelist, err := h.pricelists.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pricelist)
}

// List godoc
// @Summary      List pricelists
// @Description  List pricelists with pagination
// @Tags         pricelists
// @Accept       json
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]pricingapp.PricelistResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/pricelists [get]
func (h *PricelistHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var query pageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.pricelists.List(c.Request.Context(), actor, query.Page, query.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID godoc
// @Summary      Get pricelist by ID
// @Description  Retrieve a pricelist and its items
// @Tags         pricelists
// @Accept       json
// @Produce      json
// @Param        id path string true "Pricelist ID" format(uuid)
// @Success      200 {object} dto.Response{data=pricingapp.PricelistResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/pricelists/{id} [get]
func (h *PricelistHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	pricelist, err := h.pricelists.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pricelist)
}

// AddItem godoc
// @Summary      Add a pricelist item
// @Description  Add a pricing rule to a pricelist
// @Tags         pricelists
// @Accept       json
// @Produce      json
// @Param        id path string true "Pricelist ID" format(uuid)
// @Param        request body pricingapp.PricelistItemRequest true "Pricelist item"
// @Success      201 {object} dto.Response{data=pricingapp.PricelistResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/pricelists/{id}/items [post]
func (h *PricelistHandler) AddItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req pricingapp.PricelistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	pricelist, err := h.pricelists.AddItem(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pricelist)
}

// RemoveItem godoc
// @Summary      Remove a pricelist item
// @Description  Remove a pricing rule from a pricelist
// @Tags         pricelists
// @Accept       json
// @Produce      json
// @Param        id path string true "Pricelist ID" format(uuid)
// @Param        item_id path string true "Pricelist item ID" format(uuid)
// @Success      200 {object} dto.Response{data=pricingapp.PricelistResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/pricelists/{id}/items/{item_id} [delete]
func (h *PricelistHandler) RemoveItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "item_id")
	if !ok {
		return
	}

	pricelist, err := h.pricelists.RemoveItem(c.Request.Context(), actor, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pricelist)
}

// ProductsPrice godoc
// @Summary      Compute pricelist prices
// @Description  Compute the pricelist price of several products. Prices come back in request order.
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        id path string true "Pricelist ID" format(uuid)
// @Param        request body pricingapp.ProductsPriceRequest true "Products and quantities"
// @Success      200 {object} dto.Response{data=pricingapp.ProductsPriceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/pricelists/{id}/prices [post]
func (h *PricelistHandler) ProductsPrice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req pricingapp.ProductsPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	prices, err := h.pricelists.GetProductsPrice(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}

// ProductPrice godoc
// @Summary      Compute one pricelist price
// @Description  Compute the pricelist price of a single product
// @Tags         prices
// @Accept       json
// @Produce      json
// @Param        id path string true "Pricelist ID" format(uuid)
// @Param        product_id path string true "Product template or variant ID" format(uuid)
// @Param        model query string false "Product model" Enums(product.template, product.product) default(product.template)
// @Param        quantity query number false "Quantity" default(1)
// @Param        date query string false "Pricing date (YYYY-MM-DD)"
// @Param        taxes_included query bool false "Add price-included taxes"
// @Param        use_planned_price query bool false "Price from the planned price"
// @Param        company_id query string false "Company ID" format(uuid)
// @Success      200 {object} dto.Response{data=pricingapp.ProductPrice}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/pricelists/{id}/products/{product_id}/price [get]
func (h *PricelistHandler) ProductPrice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "product_id")
	if !ok {
		return
	}
	var query productPriceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	price, err := h.pricelists.GetProductPrice(c.Request.Context(), actor, id, productID, query.request())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, price)
}

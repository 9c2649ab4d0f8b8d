package router

import (
	"context"
	"net/http"
	"testing"

	"github.com/erp/productext/internal/domain/identity"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type denyAll struct {
	calls []identity.AccessMode
}

func (d *denyAll) Check(_ context.Context, _, _ uuid.UUID, _ any, mode identity.AccessMode, _ bool) (bool, error) {
	d.calls = append(d.calls, mode)
	return false, shared.NewDomainError("ACCESS_DENIED", "denied")
}

func TestPricingAPI(t *testing.T) {
	engine := gin.New()
	guard := &denyAll{}
	rejectAll := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }

	h := APIHandlers{
		Auth:       handler.NewAuthHandler(nil),
		Products:   handler.NewProductHandler(nil),
		Pricelists: handler.NewPricelistHandler(nil),
		Jobs:       handler.NewJobHandler(nil, nil),
	}
	NewRouter(engine).Register(PricingAPI(h, APIConfig{Authenticate: rejectAll, Guard: guard})...).Setup()

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/catalog/products"},
		{http.MethodPut, "/api/v1/catalog/products/" + uuid.NewString() + "/planned-price"},
		{http.MethodPost, "/api/v1/catalog/planned-price/run"},
		{http.MethodGet, "/api/v1/pricing/pricelists"},
		{http.MethodGet, "/api/v1/pricing/pricelists/" + uuid.NewString() + "/products/" + uuid.NewString() + "/price"},
	}
	for _, route := range protected {
		w := serve(engine, route.method, route.path)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
	assert.Empty(t, guard.calls)

	// login is public: an empty body fails validation rather than authentication
	assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/api/v1/auth/login").Code)
}

func TestPricingAPI_ProfilingOnProtectedRoutes(t *testing.T) {
	engine := gin.New()
	var profiled []string
	h := APIHandlers{
		Auth:       handler.NewAuthHandler(nil),
		Products:   handler.NewProductHandler(nil),
		Pricelists: handler.NewPricelistHandler(nil),
		Jobs:       handler.NewJobHandler(nil, nil),
	}
	NewRouter(engine).Register(PricingAPI(h, APIConfig{
		Authenticate: func(c *gin.Context) { c.Next() },
		Profiling: func(c *gin.Context) {
			profiled = append(profiled, c.FullPath())
			c.AbortWithStatus(http.StatusTeapot)
		},
		Guard: &denyAll{},
	})...).Setup()

	assert.Equal(t, http.StatusTeapot, serve(engine, http.MethodGet, "/api/v1/catalog/products").Code)
	assert.Equal(t, http.StatusTeapot, serve(engine, http.MethodGet, "/api/v1/pricing/pricelists").Code)
	assert.Equal(t, []string{"/api/v1/catalog/products", "/api/v1/pricing/pricelists"}, profiled)

	// login stays outside the profiled groups
	assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/api/v1/auth/login").Code)
}

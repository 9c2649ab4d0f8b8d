package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/erp/productext/internal/infrastructure/auth"
	"github.com/erp/productext/internal/interfaces/http/dto"
	"github.com/erp/productext/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func testActor() catalogapp.Actor {
	return catalogapp.Actor{TenantID: uuid.New(), UserID: uuid.New(), CompanyID: uuid.New()}
}

// authenticated simulates the JWT middleware for actor
func authenticated(actor catalogapp.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{
			TenantID:  actor.TenantID.String(),
			UserID:    actor.UserID.String(),
			CompanyID: actor.CompanyID.String(),
		})
		c.Next()
	}
}

func newTestRouter(actor *catalogapp.Actor) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	if actor != nil {
		router.Use(authenticated(*actor))
	}
	return router
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reader = bytes.NewBufferString(s)
		} else {
			raw, _ := json.Marshal(body)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"wrapped access denied", errors.Join(errors.New("ctx"), shared.NewDomainError("ACCESS_DENIED", "no write")), http.StatusForbidden, dto.ErrCodeForbidden, "no write"},
		{"job running", shared.ErrJobRunning, http.StatusConflict, dto.ErrCodeJobRunning, "Job is already running"},
		{"domain validation", shared.NewDomainError("INVALID_MARGIN", "bad margin"), http.StatusUnprocessableEntity, "INVALID_MARGIN", "bad margin"},
		{"recursion", shared.NewDomainError("PRICELIST_RECURSION", "loop"), http.StatusUnprocessableEntity, dto.ErrCodeBusinessRule, "loop"},
		{"plain error hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := newTestRouter(nil)
			router.GET("/err", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doRequest(router, http.MethodGet, "/err", nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestActor_Unauthenticated(t *testing.T) {
	h := &BaseHandler{}
	router := newTestRouter(nil)
	router.GET("/me", func(c *gin.Context) {
		if _, ok := h.actor(c); ok {
			c.Status(http.StatusOK)
		}
	})

	w := doRequest(router, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPathUUID_Invalid(t *testing.T) {
	h := &BaseHandler{}
	router := newTestRouter(nil)
	router.GET("/items/:id", func(c *gin.Context) {
		if _, ok := h.pathUUID(c, "id"); ok {
			c.Status(http.StatusOK)
		}
	})

	w := doRequest(router, http.MethodGet, "/items/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid id format")
}

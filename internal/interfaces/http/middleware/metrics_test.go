package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []observation
}

func (r *fakeRecorder) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, observation{method: method, route: route, status: status})
}

func TestHTTPMetrics(t *testing.T) {
	rec := &fakeRecorder{}
	router := gin.New()
	router.Use(HTTPMetrics(rec))
	router.GET("/products/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("uses route pattern", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/42", nil))

		require.Len(t, rec.seen, 1)
		assert.Equal(t, observation{method: http.MethodGet, route: "/products/:id", status: http.StatusOK}, rec.seen[0])
	})

	t.Run("labels unknown paths as unmatched", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/1", nil))

		require.Len(t, rec.seen, 2)
		assert.Equal(t, UnmatchedRoute, rec.seen[1].route)
		assert.Equal(t, http.StatusNotFound, rec.seen[1].status)
	})
}

package middleware

import (
	"context"
	"strings"

	"github.com/erp/productext/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig holds configuration for the profiling label middleware
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health and metrics endpoints
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/metrics"},
		SkipPathPrefixes: []string{"/health/"},
	}
}

// ProfilingWithConfig tags CPU and allocation samples taken while serving a
// request with its method, route, controller and tenant. Register it after
// the JWT middleware so the tenant label is known.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		route := c.FullPath()
		labels := telemetry.HTTPRequestLabels(
			controllerFromRoute(route),
			route,
			c.Request.Method,
			c.GetString(JWTTenantIDKey),
		)

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerFromRoute names the resource of a route pattern:
// "/api/v1/pricing/pricelists/:id/prices" gives "pricing.pricelists".
func controllerFromRoute(route string) string {
	var static []string
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		static = append(static, part)
		if len(static) == 2 {
			break
		}
	}
	return strings.Join(static, ".")
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}

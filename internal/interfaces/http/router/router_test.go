package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("pages", "/pages")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/pages/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("storefront", "/storefront")
		assert.Equal(t, "storefront", g.Name())
		assert.Equal(t, "/storefront", g.Prefix())
	})

	t.Run("registers routes for every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("pages", "/pages")
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g.GET("/versions", ok)
		g.POST("/publish", ok)
		g.PUT("/draft", ok)
		g.PATCH("/draft", ok)
		g.DELETE("/versions/:id", ok)

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		for _, tc := range []struct {
			method string
			path   string
		}{
			{"GET", "/api/v1/pages/versions"},
			{"POST", "/api/v1/pages/publish"},
			{"PUT", "/api/v1/pages/draft"},
			{"PATCH", "/api/v1/pages/draft"},
			{"DELETE", "/api/v1/pages/versions/123"},
		} {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("pages", "/pages")
		g.Use(func(c *gin.Context) {
			c.Header("X-Scoped", "yes")
			c.Next()
		})
		g.GET("/versions", func(c *gin.Context) { c.Status(http.StatusOK) })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/pages/versions", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "yes", w.Header().Get("X-Scoped"))
	})

	t.Run("mounts subgroups under parent prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("catalog", "/catalog")
		sub := g.Group("attributes", "/attributes")
		sub.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/catalog/attributes", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

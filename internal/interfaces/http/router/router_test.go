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

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "/api", r.Prefix())
	assert.Empty(t, r.registrars)

	assert.Equal(t, "/api/v2", NewRouter(gin.New(), WithAPIVersion("v2")).Prefix())
	assert.Equal(t, "/shop/v1", NewRouter(gin.New(), WithBasePath("/shop"), WithAPIVersion("v1")).Prefix())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	reviews := NewDomainGroup("reviews", "/reviews")
	reviews.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") })
	products := NewDomainGroup("products", "/products")
	products.DELETE("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })

	NewRouter(engine).Register(reviews).Register(products).Setup()

	assert.Equal(t, "list", serve(engine, http.MethodGet, "/api/reviews").Body.String())
	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/reviews").Code)
	assert.Equal(t, "42", serve(engine, http.MethodDelete, "/api/products/42").Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/reviews").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("orders", "/orders")
		assert.Equal(t, "orders", g.Name())
		assert.Equal(t, "/orders", g.Prefix())
	})

	t.Run("every verb", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("orders", "/orders")
		g.GET("", ok).POST("", ok).PUT("/:id", ok).PATCH("", ok).DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/orders"},
			{http.MethodPost, "/api/orders"},
			{http.MethodPut, "/api/orders/1"},
			{http.MethodPatch, "/api/orders"},
			{http.MethodDelete, "/api/orders/1"},
		} {
			w := serve(engine, tc.method, tc.path)
			assert.Equal(t, http.StatusOK, w.Code, tc.method+" "+tc.path)
			assert.Equal(t, tc.method, w.Body.String())
		}
	})

	t.Run("nil guards are skipped", func(t *testing.T) {
		engine := gin.New()
		var guard gin.HandlerFunc
		g := NewDomainGroup("orders", "/orders")
		g.POST("", guard, func(c *gin.Context) { c.Status(http.StatusCreated) })
		g.RegisterRoutes(engine.Group("/api"))

		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/orders").Code)
	})

	t.Run("group middleware applies to subgroups only where used", func(t *testing.T) {
		engine := gin.New()
		admin := NewDomainGroup("admin", "/admin")
		admin.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })
		session := admin.Group("session", "").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		})
		session.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })
		admin.RegisterRoutes(engine.Group("/api"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/admin/login").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/admin/me").Code)
	})
}

func TestAdminUnless(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	public := func(c *gin.Context) bool { return c.Query("email") != "" }
	engine.GET("/customers", adminUnless(public, deny), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/customers?email=a@b.c").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/customers").Code)
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers are the endpoints served under the API base path
type Handlers struct {
	Customer  *handler.CustomerHandler
	Order     *handler.OrderHandler
	Product   *handler.ProductHandler
	Review    *handler.ReviewHandler
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
}

// Guards are the route-level middleware. AdminAuth is required.
// A nil Idempotency or LoginRateLimit leaves its route unguarded.
type Guards struct {
	AdminAuth      gin.HandlerFunc
	Idempotency    gin.HandlerFunc
	LoginRateLimit gin.HandlerFunc
}

// Storefront returns the route groups of the storefront API.
//
// GET /customers and GET /orders are public when the request names an
// identity (email or userOrderId) and admin-only otherwise.
func Storefront(h Handlers, g Guards) []RouteRegistrar {
	customers := NewDomainGroup("customers", "/customers")
	customers.GET("", adminUnless(handler.HasLookupKey, g.AdminAuth), h.Customer.Lookup)
	customers.GET("/get-all", g.AdminAuth, h.Customer.List)
	customers.POST("", h.Customer.Register)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", g.Idempotency, h.Order.Place)
	orders.GET("", adminUnless(handler.HasUserOrderID, g.AdminAuth), h.Order.List)
	orders.GET("/:id", g.AdminAuth, h.Order.Get)
	orders.PATCH("", g.AdminAuth, h.Order.UpdateStatus)

	products := NewDomainGroup("products", "/products")
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.POST("", g.AdminAuth, h.Product.Create)
	products.DELETE("/:id", g.AdminAuth, h.Product.Delete)

	reviews := NewDomainGroup("reviews", "/reviews")
	reviews.GET("", h.Review.List)
	reviews.POST("", h.Review.Create)

	admin := NewDomainGroup("admin", "/admin")
	admin.POST("/login", g.LoginRateLimit, h.Auth.Login)
	admin.POST("/logout", h.Auth.Logout)
	admin.GET("/logout", h.Auth.Logout)
	session := admin.Group("session", "").Use(g.AdminAuth)
	session.GET("/me", h.Auth.Me)
	session.GET("/dashboard", h.Dashboard.Summary)
	session.GET("/orders", h.Order.ListAll)

	return []RouteRegistrar{customers, orders, products, reviews, admin}
}

// adminUnless runs adminAuth unless public reports the request may proceed anonymously
func adminUnless(public func(*gin.Context) bool, adminAuth gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if public(c) {
			c.Next()
			return
		}
		adminAuth(c)
	}
}

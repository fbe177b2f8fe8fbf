package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/auth"
	"crm-commerce/internal/handlers"
	"crm-commerce/internal/middleware"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Products      *handlers.ProductHandler
	Categories    *handlers.CategoryHandler
	ShippingRates *handlers.ShippingRateHandler
	Cart          *handlers.CartHandler
	Orders        *handlers.OrderHandler
	Customers     *handlers.CustomerHandler
	Settings      *handlers.SettingsHandler
	Audit         *handlers.AuditHandler
	Reports       *handlers.ReportHandler
}

func RegisterRoutes(router *gin.Engine, h Handlers, tokens *auth.TokenManager) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.GET("/products", h.Products.GetProducts)
		v1.GET("/products/:id", h.Products.GetProductByID)
		v1.GET("/categories", h.Categories.GetCategories)
		v1.GET("/categories/:id", h.Categories.GetCategory)
		v1.GET("/settings/system", h.Settings.GetSystem)
	}

	authed := v1.Group("", middleware.Authenticate(tokens))

	cart := authed.Group("/cart", middleware.RequireCustomer())
	{
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.ClearCart)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:productId", h.Cart.SetQuantity)
		cart.DELETE("/items/:productId", h.Cart.RemoveItem)
	}

	// visibility of list and detail is decided per principal by the order service
	orders := authed.Group("/orders")
	{
		orders.GET("", h.Orders.GetOrders)
		orders.GET("/:id", h.Orders.GetOrder)
		orders.POST("", middleware.RequireCustomer(), h.Orders.PlaceOrder)
		orders.PUT("/:id", middleware.RequireCustomer(), h.Orders.OrderAction)
		orders.DELETE("/:id", middleware.RequireCustomer(), h.Orders.CancelOrder)
		orders.PUT("/:id/status", middleware.RequireAdmin(auth.PermOrdersManage), h.Orders.UpdateStatus)
	}

	admin := authed.Group("/admin")

	catalog := admin.Group("", middleware.RequireAdmin(auth.PermCatalogManage))
	{
		catalog.GET("/products", h.Products.GetAllProducts)
		catalog.POST("/products", h.Products.CreateProduct)
		catalog.GET("/products/:id", h.Products.GetAnyProduct)
		catalog.PATCH("/products/:id", h.Products.UpdateProduct)
		catalog.DELETE("/products/:id", h.Products.DeleteProduct)

		catalog.POST("/categories", h.Categories.CreateCategory)
		catalog.PATCH("/categories/:id", h.Categories.UpdateCategory)
		catalog.DELETE("/categories/:id", h.Categories.DeleteCategory)

		catalog.GET("/courses", h.Categories.GetCourses)
		catalog.POST("/courses", h.Categories.CreateCourse)

		catalog.GET("/shipping-rates", h.ShippingRates.GetRates)
		catalog.POST("/shipping-rates", h.ShippingRates.CreateRate)
		catalog.POST("/shipping-rates/quote", h.ShippingRates.PreviewQuote)
		catalog.PATCH("/shipping-rates/:id", h.ShippingRates.UpdateRate)
		catalog.DELETE("/shipping-rates/:id", h.ShippingRates.DeleteRate)
	}

	crm := admin.Group("", middleware.RequireAdmin(auth.PermCustomersManage))
	{
		crm.GET("/customers", h.Customers.GetCustomers)
		crm.POST("/customers", h.Customers.CreateCustomer)
		crm.GET("/customers/:id", h.Customers.GetCustomer)
		crm.PATCH("/customers/:id", h.Customers.UpdateCustomer)
		crm.PUT("/customers/:id/tags", h.Customers.ReplaceTags)
		crm.GET("/customers/:id/enrollments", h.Customers.GetEnrollments)

		crm.GET("/tags", h.Customers.GetTags)
		crm.POST("/tags", h.Customers.CreateTag)
		crm.DELETE("/tags/:id", h.Customers.DeleteTag)

		crm.POST("/campaigns/recipients", h.Customers.ResolveRecipients)
	}

	settings := admin.Group("/settings", middleware.RequireAdmin(auth.PermSettingsManage))
	{
		settings.GET("/system", h.Settings.GetSystem)
		settings.PUT("/system", h.Settings.PutSystem)
		settings.GET("/email", h.Settings.GetEmail)
		settings.PUT("/email", h.Settings.PutEmail)
		settings.GET("/payment", h.Settings.GetPayment)
		settings.PUT("/payment", h.Settings.PutPayment)
	}

	admin.GET("/audit-logs", middleware.RequireAdmin(auth.PermAuditView), h.Audit.GetLogs)
	admin.GET("/reports/sales", middleware.RequireAdmin(auth.PermReportsView), h.Reports.GetSales)
}

package routes

import (
	"bakery-service/controllers"
	"bakery-service/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers groups everything RegisterRoutes mounts.
type Controllers struct {
	Health    *controllers.HealthController
	Catalog   *controllers.CatalogController
	Offerings *controllers.OfferingController
	Cart      *controllers.CartController
	Contact   *controllers.ContactController
	Admin     *controllers.AdminController
}

// Options carries the route-level middleware built in main.
type Options struct {
	JWTSecret []byte
	// FormLimiter throttles checkout and contact submissions per IP.
	FormLimiter *middleware.RateLimiter
}

func RegisterRoutes(r *gin.Engine, c Controllers, opts Options) {
	r.GET("/health", c.Health.Health)

	var limit gin.HandlerFunc = func(ctx *gin.Context) { ctx.Next() }
	if opts.FormLimiter != nil {
		limit = opts.FormLimiter.Handler()
	}

	public := r.Group("/")
	public.Use(middleware.SessionID())
	{
		public.GET("/products", c.Catalog.ListProducts)
		public.GET("/products/:id", c.Catalog.GetProduct)
		public.GET("/services", c.Offerings.ListActive)

		public.GET("/cart", c.Cart.GetCart)
		public.DELETE("/cart", c.Cart.ClearCart)
		public.POST("/cart/items", c.Cart.AddItem)
		public.PUT("/cart/items/:product_id", c.Cart.UpdateItem)
		public.DELETE("/cart/items/:product_id", c.Cart.RemoveItem)
		public.POST("/cart/checkout", limit, c.Cart.Checkout)

		public.POST("/contact", limit, c.Contact.Submit)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuth(opts.JWTSecret))
	{
		admin.GET("/dashboard", c.Admin.Dashboard)

		admin.GET("/products", c.Admin.ListProducts)
		admin.POST("/products", c.Admin.CreateProduct)
		admin.POST("/products/image-upload", c.Admin.PresignProductImage)
		admin.PUT("/products/:id", c.Admin.UpdateProduct)
		admin.DELETE("/products/:id", c.Admin.DeleteProduct)

		admin.GET("/services", c.Offerings.ListAll)
		admin.POST("/services", c.Offerings.Create)
		admin.PUT("/services/:id", c.Offerings.Update)
		admin.DELETE("/services/:id", c.Offerings.Delete)

		admin.GET("/orders", c.Admin.ListOrders)
		admin.GET("/orders/:id", c.Admin.GetOrder)
		admin.PATCH("/orders/:id/status", c.Admin.UpdateOrderStatus)

		admin.GET("/messages", c.Admin.ListMessages)
		admin.PATCH("/messages/:id/status", c.Admin.UpdateMessageStatus)
	}
}

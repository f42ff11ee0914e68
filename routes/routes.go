package routes

import (
	"net/http"

	"restaurant-api/handlers"
	"restaurant-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Restaurant Ordering API",
			"version": "1.0.0",
		})
	})

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.GET("/menu", h.GetMenu)
		public.GET("/categories", h.GetCategories)
	}

	// ── Cart & checkout (per session) ──────────────────────────────
	shop := r.Group("/api")
	shop.Use(middleware.Session())
	{
		shop.GET("/cart", h.GetCart)
		shop.POST("/cart/items", h.AddToCart)
		shop.PUT("/cart/items/:id", h.UpdateCartItem)
		shop.DELETE("/cart/items/:id", h.RemoveCartItem)
		shop.DELETE("/cart", h.ClearCart)

		shop.POST("/checkout", h.PlaceOrder)
		shop.POST("/checkout/whatsapp", h.PlaceWhatsAppOrder)
	}

	// ── Admin auth ─────────────────────────────────────────────────
	r.POST("/api/admin/login", h.Login)
	r.POST("/api/admin/logout", h.Logout)

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(h.Auth.AdminRequired())
	{
		admin.GET("/orders", h.AdminGetOrders)
		admin.GET("/orders/stats", h.AdminGetStats)
		admin.GET("/orders/:id", h.AdminGetOrder)
		admin.PUT("/orders/:id/status", h.AdminUpdateOrderStatus)
		admin.DELETE("/orders/:id", h.AdminDeleteOrder)

		admin.GET("/menu", h.AdminGetMenu)
		admin.POST("/menu", h.AdminCreateMenuItem)
		admin.PUT("/menu/:id", h.AdminUpdateMenuItem)
		admin.DELETE("/menu/:id", h.AdminDeleteMenuItem)

		admin.GET("/categories", h.AdminGetCategories)
		admin.POST("/categories", h.AdminCreateCategory)
		admin.PUT("/categories/:id", h.AdminUpdateCategory)
		admin.DELETE("/categories/:id", h.AdminDeleteCategory)

		admin.GET("/settings/telegram", h.AdminGetTelegramSettings)
		admin.PUT("/settings/telegram", h.AdminUpdateTelegramSettings)
		admin.POST("/settings/telegram/test", h.AdminTestTelegram)

		admin.GET("/actions", h.AdminGetActions)
		admin.GET("/statuses", h.GetStatuses)
	}
}

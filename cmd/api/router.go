package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"writerspocket-backend/internal/shared/middleware"
	"writerspocket-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupAuthorRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupCategoryRoutes(v1, c)
		setupRoyaltyRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupWebhookRoutes(v1, c)
		setupNotificationRoutes(v1, c)
		setupSupportRoutes(v1, c)
		setupPageRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// =====================================================
// AUTH ROUTES
// =====================================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.AuthorHandler.Register)
		auth.POST("/login", c.AuthorHandler.Login)
	}
}

// =====================================================
// AUTHOR ROUTES
// =====================================================
func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authors := v1.Group("/authors")
	authors.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		authors.GET("/me", c.AuthorHandler.GetProfile)
		authors.GET("/me/books", c.BookHandler.MyBooks)
	}
}

// =====================================================
// BOOK ROUTES
// =====================================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Public catalog reads.
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.List)
		books.GET("/:id", c.BookHandler.Get)
		books.GET("/:id/authors", c.BookHandler.GetAuthors)
	}
}

// =====================================================
// CATEGORY ROUTES
// =====================================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	categories := v1.Group("/categories")
	{
		categories.GET("", c.CategoryHandler.List)
		categories.GET("/:id", c.CategoryHandler.Get)
	}
}

// =====================================================
// ROYALTY ROUTES (author-facing)
// =====================================================
func setupRoyaltyRoutes(v1 *gin.RouterGroup, c *container.Container) {
	royalties := v1.Group("/royalties")
	royalties.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		royalties.GET("/me", c.RoyaltyHandler.MyRoyalties)
		royalties.GET("/me/summary", c.RoyaltyHandler.MySummary)
		royalties.GET("/me/statement", c.RoyaltyHandler.MyStatement)
	}
}

// =====================================================
// ORDER ROUTES (author-facing)
// =====================================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		orders.POST("", c.OrderHandler.Create)
		orders.GET("/me", c.OrderHandler.MyOrders)
		orders.GET("/:id", c.OrderHandler.Get)
	}
}

// =====================================================
// WEBHOOK ROUTES
// =====================================================
// No auth middleware: the provider authenticates with the HMAC signature
// over the raw body.
func setupWebhookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("/razorpay", c.WebhookHandler.Receive)
	}
}

// =====================================================
// NOTIFICATION ROUTES
// =====================================================
func setupNotificationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	notifications := v1.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		notifications.GET("", c.NotificationHandler.ListMine)
		notifications.GET("/unread-count", c.NotificationHandler.UnreadCount)
		notifications.POST("/:id/read", c.NotificationHandler.MarkRead)
		notifications.POST("/read-all", c.NotificationHandler.MarkAllRead)
	}
}

// =====================================================
// SUPPORT ROUTES (author-facing)
// =====================================================
func setupSupportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	support := v1.Group("/support/tickets")
	support.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		support.POST("", c.SupportHandler.Create)
		support.GET("", c.SupportHandler.MyTickets)
		support.GET("/:id", c.SupportHandler.Get)
		support.POST("/:id/replies", c.SupportHandler.Reply)
	}
}

// =====================================================
// CONTENT PAGE ROUTES
// =====================================================
func setupPageRoutes(v1 *gin.RouterGroup, c *container.Container) {
	pages := v1.Group("/pages")
	{
		pages.GET("/:slug", c.PageHandler.GetBySlug)
	}
}

// =====================================================
// ADMIN ROUTES
// =====================================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.Config.JWT.Secret),
		middleware.AdminMiddleware(),
	)
	{
		// Authors
		admin.GET("/authors", c.AuthorHandler.List)
		admin.GET("/authors/:id", c.AuthorHandler.GetByID)
		admin.POST("/authors/:id/uid", c.AuthorHandler.EnsureUID)

		// Books
		admin.POST("/books", c.BookHandler.Create)
		admin.PUT("/books/:id", c.BookHandler.Update)
		admin.DELETE("/books/:id", c.BookHandler.Delete)
		admin.PATCH("/books/:id/stage", c.BookHandler.UpdateStage)
		admin.POST("/books/:id/authors", c.BookHandler.LinkAuthors)
		admin.DELETE("/books/:id/authors/:authorId", c.BookHandler.UnlinkAuthor)
		admin.POST("/books/:id/manuscript", c.BookHandler.UploadManuscript)
		admin.POST("/books/bulk-import", c.BulkImportHandler.ImportBooks)

		// Categories
		admin.POST("/categories", c.CategoryHandler.Create)
		admin.PUT("/categories/:id", c.CategoryHandler.Update)
		admin.DELETE("/categories/:id", c.CategoryHandler.Delete)

		// Royalties
		admin.GET("/royalties", c.RoyaltyHandler.List)
		admin.POST("/royalties/sales", c.RoyaltyHandler.PostSale)
		admin.POST("/royalties/sales-import", c.RoyaltyHandler.ImportSales)
		admin.POST("/royalties/mark-paid", c.RoyaltyHandler.MarkPaid)
		admin.GET("/royalties/summary", c.RoyaltyHandler.AuthorSummary)

		// Orders
		admin.GET("/orders", c.OrderHandler.List)
		admin.GET("/orders/:id", c.OrderHandler.GetAny)
		admin.PATCH("/orders/:id/status", c.OrderHandler.UpdateStatus)

		// Webhook audit trail
		admin.GET("/webhook-logs", c.WebhookHandler.ListLogs)

		// Support tickets
		admin.GET("/support/tickets", c.SupportHandler.List)
		admin.GET("/support/tickets/:id", c.SupportHandler.GetAny)
		admin.POST("/support/tickets/:id/replies", c.SupportHandler.AdminReply)
		admin.PATCH("/support/tickets/:id/status", c.SupportHandler.UpdateStatus)

		// Content pages
		admin.GET("/pages", c.PageHandler.List)
		admin.POST("/pages", c.PageHandler.Create)
		admin.GET("/pages/:id", c.PageHandler.Get)
		admin.PUT("/pages/:id", c.PageHandler.Update)
		admin.DELETE("/pages/:id", c.PageHandler.Delete)
	}
}

// =====================================================
// HEALTH CHECK
// =====================================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}

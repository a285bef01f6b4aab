package handler

import (
	"context"
	"html/template"
	"net/http"

	"github.com/fourways-coffee/storefront/internal/session"
	"github.com/fourways-coffee/storefront/pkg/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecker is a dependency /health probes.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type RouterConfig struct {
	Logger    *zap.Logger
	Sessions  *session.Manager
	Templates *template.Template
	Origin    string
	Kafka     HealthChecker

	Storefront *StorefrontHandler
	Cart       *CartHandler
	Checkout   *CheckoutHandler
	Admin      *AdminHandler
	Auth       *AuthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.SetHTMLTemplate(cfg.Templates)

	// the webhook authenticates by signature and never touches the session
	router.POST("/stripe-webhook", cfg.Checkout.StripeWebhook)
	router.GET("/health", health(cfg.Kafka))

	site := router.Group("/")
	site.Use(middleware.SecurityHeaders(cfg.Origin))
	site.Use(cfg.Sessions.Middleware())
	{
		site.GET("/", cfg.Storefront.Home)
		site.GET("/product/:id", cfg.Storefront.Product)
		site.GET("/success", cfg.Storefront.Success)
		site.GET("/cancel", cfg.Storefront.Cancel)

		site.GET("/cart", cfg.Cart.View)
		site.GET("/cart/data", cfg.Cart.Data)
		site.GET("/cart/count", cfg.Cart.Count)
		site.POST("/cart/add", cfg.Cart.Add)
		site.POST("/cart/update", cfg.Cart.Update)
		site.POST("/cart/remove", cfg.Cart.Remove)

		site.POST("/create-checkout-session", cfg.Checkout.CreateCheckoutSession)

		site.GET("/admin/login", cfg.Auth.LoginForm)
		site.POST("/admin/login", cfg.Auth.Login)
		site.POST("/admin/logout", cfg.Auth.Logout)

		admin := site.Group("/admin")
		admin.Use(RequireAdmin())
		{
			admin.GET("/orders", cfg.Admin.Orders)
			admin.GET("/api/orders", cfg.Admin.OrdersAPI)
			admin.POST("/orders/:id/status", cfg.Admin.UpdateOrderStatus)
			admin.GET("/inventory", cfg.Admin.Inventory)
			admin.POST("/inventory/roast-session", cfg.Admin.RoastSession)
		}
	}

	router.NoRoute(cfg.Storefront.NotFound)
	return router
}

func health(kafka HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{
			"status":  "healthy",
			"service": "storefront",
		}
		if kafka != nil {
			if err := kafka.HealthCheck(c.Request.Context()); err != nil {
				status["status"] = "degraded"
				status["kafka"] = "unhealthy"
				c.JSON(http.StatusServiceUnavailable, status)
				return
			}
			status["kafka"] = "healthy"
		}
		c.JSON(http.StatusOK, status)
	}
}

package router

import (
	"fmt"
	"strings"

	"github.com/charmsmith/internal/cache"
	"github.com/charmsmith/internal/config"
	adminhandlers "github.com/charmsmith/internal/http/handlers/admin"
	publichandlers "github.com/charmsmith/internal/http/handlers/public"
	"github.com/charmsmith/internal/logger"
	"github.com/charmsmith/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cs"
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		Message:       "too many checkout attempts, please wait a moment",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/charms", publicHandler.ListCharms)
			public.GET("/charms/:id", publicHandler.GetCharm)
			public.GET("/categories", publicHandler.GetCategoryTree)
			public.GET("/events", publicHandler.ListEvents)
			public.GET("/reviews", publicHandler.ListReviews)
			public.POST("/reviews", publicHandler.CreateReview)
			public.GET("/checkout/captcha", publicHandler.GetCheckoutCaptcha)
		}

		builder := apiV1.Group("/builder")
		{
			builder.GET("", publicHandler.GetBuilder)
			builder.POST("/size", publicHandler.SetBuilderSize)
			builder.POST("/starting-charm", publicHandler.SetStartingCharm)
			builder.POST("/arm", publicHandler.ArmCharm)
			builder.POST("/place", publicHandler.PlaceCharm)
			builder.POST("/drag-place", publicHandler.DragPlaceCharm)
			builder.POST("/finalize", publicHandler.FinalizeBuilder)
			builder.POST("/load/:id", publicHandler.LoadBracelet)
			builder.POST("/save/:id", publicHandler.SaveBracelet)
		}

		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", publicHandler.AddCharmItem)
			cart.PUT("/items/:id", publicHandler.UpdateCharmItem)
			cart.DELETE("/items/:id", publicHandler.RemoveCharmItem)
			cart.DELETE("/bracelets/:id", publicHandler.RemoveBracelet)
			cart.DELETE("", publicHandler.ClearCart)
		}

		apiV1.POST("/checkout",
			RateLimitMiddleware(cache.Client(), checkoutRule, KeyByIP),
			publicHandler.SubmitCheckout,
		)

		// 管理端：声明无站点导航框架，统一走会话鉴权
		admin := apiV1.Group("/admin")
		admin.Use(NoChromeMiddleware())
		{
			admin.POST("/login", adminHandler.Login)

			authed := admin.Group("")
			authed.Use(AdminJWTMiddleware(c.AuthService))
			{
				authed.GET("/charms", adminHandler.ListCharms)
				authed.POST("/charms", adminHandler.CreateCharm)
				authed.PUT("/charms/:id", adminHandler.UpdateCharm)
				authed.DELETE("/charms/:id", adminHandler.DeleteCharm)
				authed.GET("/charms/export", adminHandler.ExportCharmsCSV)
				authed.POST("/charms/import", adminHandler.ImportCharmsCSV)
				authed.POST("/charms/upload", adminHandler.UploadCharmImage)

				authed.GET("/orders", adminHandler.ListOrders)
				authed.GET("/orders/:id", adminHandler.GetOrder)
				authed.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

				authed.GET("/events", adminHandler.ListEvents)
				authed.POST("/events", adminHandler.CreateEvent)
				authed.PUT("/events/:id", adminHandler.UpdateEvent)
				authed.DELETE("/events/:id", adminHandler.DeleteEvent)

				authed.GET("/reviews", adminHandler.ListReviews)
				authed.DELETE("/reviews/:id", adminHandler.DeleteReview)
			}
		}
	}

	return r
}

package router

import (
	"fmt"
	"strings"

	"github.com/storefront-api/internal/cache"
	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/constants"
	publichandlers "github.com/storefront-api/internal/http/handlers/public"
	"github.com/storefront-api/internal/logger"
	"github.com/storefront-api/internal/provider"

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
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/token", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 匿名可访问、登录后按身份过滤的接口
		optional := apiV1.Group("")
		optional.Use(OptionalUserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			optional.GET("/cart", publicHandler.GetCart)
			optional.GET("/orders", publicHandler.ListOrders)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.POST("/cart/items", publicHandler.UpdateCartItem)
			user.POST("/checkout", publicHandler.ProcessOrder)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders/history", publicHandler.ListOrderHistory)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.PUT("/orders/:id", publicHandler.UpdateOrder)
			user.PATCH("/orders/:id", publicHandler.UpdateOrder)
			user.DELETE("/orders/:id", publicHandler.DeleteOrder)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

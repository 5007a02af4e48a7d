package api

import (
	"context"
	"net/http"
	"time"

	"servd-api/internal/api/handlers/health"
	mealsHandler "servd-api/internal/api/handlers/meals"
	recipeHandler "servd-api/internal/api/handlers/recipe"
	"servd-api/internal/api/middleware"
	"servd-api/internal/core/ai/gemini"
	"servd-api/internal/core/gate"
	"servd-api/internal/core/image"
	"servd-api/internal/core/mealdb"
	recipeService "servd-api/internal/core/recipe"
	"servd-api/internal/core/store"
	"servd-api/internal/infrastructure/config"
	"servd-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, gateService *gate.Service, cache *recipeService.RecommendationCache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-User-ID", "X-User-Tier"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// IP 層級的粗粒度限流，與使用者配額閘道分開
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("gate_enabled", cfg.Gate.Enabled),
		zap.String("model", cfg.Gemini.Model),
		zap.String("strapi_url", cfg.Strapi.URL),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化外部服務客戶端
	oracle := gemini.NewClient(&cfg.Gemini)
	storeClient := store.NewClient(&cfg.Strapi)
	imageService := image.NewService(&cfg.Unsplash)
	mealdbService := mealdb.NewService(&cfg.MealDB)

	// 初始化核心服務
	recommendationSvc := recipeService.NewRecommendationService(oracle, gateService, storeClient, cache, cfg.Gate.FreeMonthlyLimit)
	resolutionSvc := recipeService.NewResolutionService(oracle, storeClient, imageService)
	collectionSvc := recipeService.NewCollectionService(storeClient)

	common.LogInfo("Services initialized successfully",
		zap.Bool("gate_initialized", gateService != nil),
		zap.Bool("cache_initialized", cache != nil),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 設置配置與快取（供健康檢查使用）
		c.Set("config", cfg)
		c.Set("recommendation_cache", cache)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		// 餐點目錄瀏覽（公開，單純讀取透傳）
		mealsHandlerInstance := mealsHandler.NewHandler(mealdbService)
		mealsGroup := api.Group("/meals")
		{
			mealsGroup.GET("/daily", mealsHandlerInstance.HandleRecipeOfTheDay)
			mealsGroup.GET("/categories", mealsHandlerInstance.HandleCategories)
			mealsGroup.GET("/areas", mealsHandlerInstance.HandleAreas)
			mealsGroup.GET("/category/:category", mealsHandlerInstance.HandleMealsByCategory)
			mealsGroup.GET("/area/:area", mealsHandlerInstance.HandleMealsByArea)
			mealsGroup.GET("/:id", mealsHandlerInstance.HandleMealByID)
		}

		recipeHandlerInstance := recipeHandler.NewHandler(recommendationSvc, resolutionSvc, collectionSvc)

		// 需要身份的路由
		authed := api.Group("")
		authed.Use(middleware.Identity())
		{
			recipesGroup := authed.Group("/recipes")
			{
				// 依儲藏室內容推薦食譜
				recipesGroup.POST("/recommendations", recipeHandlerInstance.HandleRecommendations)

				// 取得或生成指定名稱的食譜
				recipesGroup.POST("/resolve", recipeHandlerInstance.HandleResolve)
			}

			collectionGroup := authed.Group("/collection")
			{
				collectionGroup.POST("", recipeHandlerInstance.HandleSave)
				collectionGroup.DELETE("/:recipeId", recipeHandlerInstance.HandleRemove)
				collectionGroup.GET("", recipeHandlerInstance.HandleList)
			}
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

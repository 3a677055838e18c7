package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	billingHandler "resto-manager/internal/api/handlers/billing"
	"resto-manager/internal/api/handlers/health"
	menuHandler "resto-manager/internal/api/handlers/menu"
	prefsHandler "resto-manager/internal/api/handlers/prefs"
	reportHandler "resto-manager/internal/api/handlers/report"
	"resto-manager/internal/api/middleware"
	billingService "resto-manager/internal/core/billing"
	"resto-manager/internal/core/cache"
	menuService "resto-manager/internal/core/menu"
	prefsStore "resto-manager/internal/core/prefs"
	reportService "resto-manager/internal/core/report"
	"resto-manager/internal/infrastructure/config"
	"resto-manager/internal/infrastructure/store"
	"resto-manager/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 60 * time.Second
	// 請求體大小限制 (1MB)，本服務不接收大型上傳
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager) (*gin.Engine, error) {
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
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("store_base_url", cfg.Store.BaseURL),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化遠端資料庫客戶端
	storeClient := store.NewClient(cfg)
	if storeClient == nil {
		common.LogError("Failed to initialize store client")
		return nil, fmt.Errorf("failed to initialize store client")
	}

	// 初始化菜單與報表服務
	menuSvc := menuService.NewService(storeClient, cacheManager)
	reportSvc := reportService.NewService(storeClient, cacheManager)
	if menuSvc == nil || reportSvc == nil {
		common.LogError("Failed to initialize core services: service returned nil",
			zap.Bool("cache_manager_initialized", cacheManager != nil),
			zap.String("environment", cfg.App.Env),
		)
		return nil, fmt.Errorf("failed to initialize core services: service returned nil")
	}

	// 初始化金流服務
	billingSvc := billingService.NewService(cfg)

	// 初始化偏好設定儲存
	prefStore := prefsStore.NewStore(cfg)

	common.LogInfo("Core services initialized successfully",
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Bool("billing_enabled", cfg.Billing.Enabled),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置超時和共享物件
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// health handler 會用到
		c.Set("config", cfg)
		c.Set("cache_manager", cacheManager)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeGatewayTimeout,
			})
		}
	})

	// 創建處理程序
	menuH := menuHandler.NewHandler(menuSvc)
	reportH := reportHandler.NewHandler(reportSvc)
	billingH := billingHandler.NewHandler(billingSvc)
	prefsH := prefsHandler.NewHandler(prefStore)

	// 健康檢查端點（不需認證）
	router.GET("/health", health.HealthCheck)
	router.GET("/health/ready", health.ReadinessCheck)
	router.GET("/health/live", health.LivenessCheck)

	// API 路由
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg))
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	v1.Use(middleware.Deduplication(cfg))
	{
		menuGroup := v1.Group("/menu")
		{
			menuGroup.GET("/recipes", menuH.HandleList)
			menuGroup.POST("/recipes", menuH.HandleAdd)
			menuGroup.PUT("/recipes/:id", menuH.HandleUpdate)
			menuGroup.DELETE("/recipes/:id", menuH.HandleDelete)
			menuGroup.POST("/recipes/:id/archive", menuH.HandleArchive)
			menuGroup.POST("/recipes/:id/unarchive", menuH.HandleUnarchive)
			menuGroup.GET("/ingredients", menuH.HandleIngredients)
		}

		reportGroup := v1.Group("/reports")
		{
			reportGroup.GET("/sales", reportH.HandleSales)
			reportGroup.GET("/sales/export", reportH.HandleExportSales)
			reportGroup.GET("/top-dishes", reportH.HandleTopDishes)
			reportGroup.GET("/top-dishes/export", reportH.HandleExportTopDishes)
			reportGroup.GET("/inventory", reportH.HandleInventory)
		}

		billingGroup := v1.Group("/billing")
		{
			billingGroup.POST("/checkout-session", billingH.HandleCheckoutSession)
			billingGroup.POST("/portal-session", billingH.HandlePortalSession)
			billingGroup.GET("/subscription", billingH.HandleSubscription)
		}

		prefsGroup := v1.Group("/preferences")
		{
			prefsGroup.GET("/:key", prefsH.HandleGet)
			prefsGroup.PUT("/:key", prefsH.HandleSet)
		}
	}

	common.LogInfo("Router setup completed")

	return router, nil
}

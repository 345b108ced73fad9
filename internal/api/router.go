package api

import (
	"fmt"
	"time"

	authHandler "receita-facil/internal/api/handlers/auth"
	catalogHandler "receita-facil/internal/api/handlers/catalog"
	feedbackHandler "receita-facil/internal/api/handlers/feedback"
	"receita-facil/internal/api/handlers/health"
	plannerHandler "receita-facil/internal/api/handlers/planner"
	recipeHandler "receita-facil/internal/api/handlers/recipe"
	"receita-facil/internal/api/middleware"
	"receita-facil/internal/core/ai/cache"
	"receita-facil/internal/core/ai/openrouter"
	"receita-facil/internal/core/ai/service"
	"receita-facil/internal/core/auth"
	"receita-facil/internal/core/catalog"
	"receita-facil/internal/core/feedback"
	"receita-facil/internal/core/planner"
	recipeService "receita-facil/internal/core/recipe"
	"receita-facil/internal/core/store"
	"receita-facil/internal/infrastructure/config"
	"receita-facil/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 由 main 建立並交給路由的共用資源
type Dependencies struct {
	Store        store.Store
	Catalog      *catalog.Catalog
	CacheManager *cache.CacheManager
	// Deduplicator 由呼叫端負責 Close
	Deduplicator *middleware.Deduplicator
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if deps.Store == nil || deps.Catalog == nil || deps.Deduplicator == nil {
		return nil, fmt.Errorf("store, catalog and deduplicator are required")
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	generator, err := newGenerator(cfg, deps.CacheManager)
	if err != nil {
		return nil, err
	}

	// 初始化服務
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, nil)
	authClient := auth.NewClient(cfg.Auth)
	plans := planner.NewWeeklyPlanService(deps.Store)
	history := planner.NewSearchHistoryService(deps.Store)
	suggestionSvc := recipeService.NewSuggestionService(deps.Catalog)
	recipeSvc := recipeService.NewRecipeService(deps.Catalog, generator, deps.Store, cfg.Plan.FreeRecipeLimit)
	feedbackSvc := feedback.NewService()

	dedup := deps.Deduplicator
	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)

	// 健康檢查路由
	var stats health.StatsProvider
	if deps.CacheManager != nil {
		stats = deps.CacheManager
	}
	healthH := health.NewHandler(cfg.App.Version, cfg.Store.Driver, deps.Store, stats)
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	authH := authHandler.NewHandler(authClient)
	catalogH := catalogHandler.NewHandler(deps.Catalog, history)
	recipeH := recipeHandler.NewHandler(recipeSvc, suggestionSvc)
	plannerH := plannerHandler.NewHandler(plans, history, deps.Catalog)
	feedbackH := feedbackHandler.NewHandler(feedbackSvc)

	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", authH.SignUp)
			authGroup.POST("/signin", authH.SignIn)
			authGroup.POST("/reset-password", authH.ResetPassword)
			authGroup.POST("/resend-confirmation", authH.ResendConfirmation)
			authGroup.POST("/signout", requireAuth, authH.SignOut)
			authGroup.POST("/update-password", requireAuth, authH.UpdatePassword)
			authGroup.GET("/session", requireAuth, authH.Session)
		}

		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("/ingredients", catalogH.ListIngredients)
			catalogGroup.GET("/recipes", requireAuth, catalogH.SearchRecipes)
		}

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("/suggest", optionalAuth, recipeH.HandleSuggest)
			recipeGroup.POST("/generate", requireAuth, dedup.Middleware(), recipeH.HandleGenerate)
		}

		planGroup := api.Group("/plan", requireAuth)
		{
			planGroup.GET("/weekly", plannerH.GetWeeklyPlan)
			planGroup.PUT("/weekly/:dayId/:mealType", plannerH.AssignMeal)
			planGroup.DELETE("/weekly/:dayId/:mealType", plannerH.ClearMeal)
		}

		historyGroup := api.Group("/history", requireAuth)
		{
			historyGroup.GET("", plannerH.ListHistory)
			historyGroup.POST("", plannerH.AddHistory)
			historyGroup.DELETE("", plannerH.ClearHistory)
		}

		api.GET("/usage", requireAuth, recipeH.HandleUsage)
		api.POST("/feedback", optionalAuth, dedup.Middleware(), feedbackH.Submit)
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("store", cfg.Store.Driver),
		zap.String("generator", cfg.Generator.Provider),
		zap.Bool("cache_manager_initialized", deps.CacheManager != nil),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

// newGenerator 依設定選擇模板或 OpenRouter 生成器
func newGenerator(cfg *config.Config, cacheManager *cache.CacheManager) (recipeService.Generator, error) {
	template := recipeService.NewTemplateGenerator(recipeService.WithDelay(cfg.Generator.Delay))

	switch cfg.Generator.Provider {
	case "", "template":
		return template, nil
	case "openrouter":
		client := openrouter.NewClient(cfg.OpenRouter)
		aiService := service.NewService(client, cacheManager, time.Second)
		common.LogInfo("Using OpenRouter generator", zap.String("model", cfg.OpenRouter.Model))
		return recipeService.NewLLMGenerator(aiService, template), nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Generator.Provider)
	}
}

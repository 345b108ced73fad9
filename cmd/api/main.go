package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"receita-facil/internal/api"
	"receita-facil/internal/api/middleware"
	"receita-facil/internal/core/ai/cache"
	"receita-facil/internal/core/catalog"
	"receita-facil/internal/core/store"
	"receita-facil/internal/infrastructure/config"
	"receita-facil/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("Configuration loaded",
		zap.String("store", cfg.Store.Driver),
		zap.String("generator", cfg.Generator.Provider),
		zap.String("auth_provider", cfg.Auth.ProviderURL),
	)

	if cfg.Auth.JWTSecret == "" {
		common.LogWarn("AUTH_JWT_SECRET is empty, every authenticated route will reject requests")
	}

	cat, err := catalog.Load()
	if err != nil {
		common.LogFatal("Failed to load catalog", zap.Error(err))
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.New(startCtx, cfg.Store)
	startCancel()
	if err != nil {
		common.LogFatal("Failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer st.Close()

	// 快取停用時為 nil
	cacheManager := cache.NewManager(cfg.Cache)
	if cacheManager != nil {
		defer cacheManager.Close()
	}

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	defer dedup.Close()

	router, err := api.SetupRouter(cfg, api.Dependencies{
		Store:        st,
		Catalog:      cat,
		CacheManager: cacheManager,
		Deduplicator: dedup,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo(common.MsgStartingServer,
			zap.Int("port", cfg.Server.Port),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo(common.MsgShuttingDown)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo(common.MsgServerExited)
}

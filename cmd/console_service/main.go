package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	authAPI "github.com/ridloal/retail-admin-console/internal/auth/api"
	cartAPI "github.com/ridloal/retail-admin-console/internal/cart/api"
	"github.com/ridloal/retail-admin-console/internal/console"
	inventoryAPI "github.com/ridloal/retail-admin-console/internal/inventory/api"
	"github.com/ridloal/retail-admin-console/internal/platform/assets"
	"github.com/ridloal/retail-admin-console/internal/platform/config"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/platform/metrics"
	"github.com/ridloal/retail-admin-console/internal/platform/scheduler"
	productAPI "github.com/ridloal/retail-admin-console/internal/product/api"
	"github.com/ridloal/retail-admin-console/internal/rate"
	salesAPI "github.com/ridloal/retail-admin-console/internal/sales/api"
	userAPI "github.com/ridloal/retail-admin-console/internal/user/api"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		logger.Warn("Could not read .env file: " + err.Error())
	}
	logger.SetOutput(logger.New(config.GetEnv("LOG_FORMAT", "console"), config.GetEnv("LOG_LEVEL", "info")))
	defer logger.Sync()

	cfg := config.LoadConsoleConfig()
	logger.Info("Starting Console Service...")

	// Shared services
	consoleMetrics := metrics.New(prometheus.DefaultRegisterer)
	sched := scheduler.New()

	rates := rate.NewProvider(cfg.Rate.URL, cfg.Rate.Currency, cfg.Backend.Timeout)
	refreshRate := func(ctx context.Context) {
		if err := rates.Refresh(ctx); err != nil {
			logger.Warn("Exchange rate refresh failed, keeping previous value: " + err.Error())
			return
		}
		v, _ := rates.Current().Value().Float64()
		consoleMetrics.ExchangeRate.Set(v)
	}
	refreshRate(context.Background())
	if err := sched.Add("rate-refresh", cfg.Rate.RefreshSpec, refreshRate); err != nil {
		logger.Error("Failed to schedule exchange rate refresh", err)
	}

	deps := console.Deps{Config: cfg, Rates: rates, Metrics: consoleMetrics}
	registry := console.NewRegistry(func(id string) *console.Workspace {
		return console.NewWorkspace(id, deps)
	}, sched, consoleMetrics, cfg.AlertPollSpec, cfg.SessionIdleTTL)
	if err := sched.Add("session-sweep", cfg.SweepSpec, registry.SweepJob); err != nil {
		logger.Error("Failed to schedule session sweep", err)
	}
	sched.Start()

	// Setup Gin Router
	router := gin.Default()
	router.RedirectTrailingSlash = false
	router.Use(consoleMetrics.Middleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rate": rates.Current().Format()})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	assetHandler, err := assets.Handler(cfg.Backend.AssetBaseURL)
	if err != nil {
		logger.Error("Asset proxy disabled", err)
	} else {
		router.GET("/assets/*path", assetHandler)
		router.HEAD("/assets/*path", assetHandler)
		logger.Info("Routing /assets to " + cfg.Backend.AssetBaseURL)
	}

	apiV1 := router.Group("/api/v1")
	workspace := apiV1.Group("", registry.Middleware())

	authAPI.NewAuthHandler(registry).RegisterRoutes(apiV1, workspace)
	productAPI.NewProductHandler().RegisterRoutes(workspace)
	cartAPI.NewCartHandler().RegisterRoutes(workspace)
	salesAPI.NewSalesHandler().RegisterRoutes(workspace)
	userAPI.NewUserHandler().RegisterRoutes(workspace)
	inventoryAPI.NewInventoryHandler().RegisterRoutes(workspace)

	server := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Console Service running on port " + cfg.Server.Port)
		logger.Info("Console Service driving backend at " + cfg.Backend.BaseURL)
		if errSrv := server.ListenAndServe(); errSrv != nil && !errors.Is(errSrv, http.ErrServerClosed) {
			logger.Error("Failed to run Console Service server", errSrv)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down Console Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Console Service forced to shutdown", err)
	}
	sched.Stop(ctx)
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/8shagrid/app-scout/internal/api/handlers"
	"github.com/8shagrid/app-scout/internal/cache"
	"github.com/8shagrid/app-scout/internal/metrics"
	"github.com/8shagrid/app-scout/internal/middleware/ratelimit"
	"github.com/8shagrid/app-scout/internal/middleware/security"
	"github.com/8shagrid/app-scout/internal/middleware/validation"
	"github.com/8shagrid/app-scout/internal/playstore"
	"github.com/8shagrid/app-scout/internal/reviewintel"
	"github.com/8shagrid/app-scout/internal/scout"
	"github.com/8shagrid/app-scout/internal/session"
	"github.com/8shagrid/app-scout/internal/strategy"
	"github.com/8shagrid/app-scout/pkg/config"
	appLogger "github.com/8shagrid/app-scout/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting App Scout API Server")

	metrics.Init()

	textTable, err := reviewintel.LoadTextTable(cfg.Locale.TextConfigPath)
	if err != nil {
		appLogger.Fatal("Failed to load locale text config", zap.Error(err))
	}

	analysisCache, err := cache.New(cfg.Cache, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to create cache", zap.Error(err))
	}
	defer analysisCache.Close()

	provider := playstore.NewClient(cfg.Provider.TimeoutSec)
	advisor := strategy.NewAdvisor(cfg.LLM)
	engine := scout.NewEngine(provider, analysisCache, advisor, textTable, cfg)
	sessions := session.NewStore(time.Duration(cfg.Cache.TTLSeconds) * time.Second)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Session-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	marketHandler := handlers.NewMarketHandler(engine, sessions)
	competitorHandler := handlers.NewCompetitorHandler(engine, sessions)
	sessionHandler := handlers.NewSessionHandler(sessions)

	api := app.Group("/api/v1")

	api.Post("/market/analyze", marketHandler.HandleAnalyze)
	api.Post("/competitor/analyze", competitorHandler.HandleAnalyze)
	api.Get("/reviews/search", competitorHandler.HandleReviewSearch)
	api.Get("/session/:id", sessionHandler.HandleGet)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

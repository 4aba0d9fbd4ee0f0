package main

import (
	"context"
	"net/http"

	"quote-service/internal/catalog"
	"quote-service/internal/handler"
	"quote-service/internal/leads"
	mid "quote-service/internal/middleware"
	"quote-service/internal/quote"
	"quote-service/pkg/config"
	"quote-service/pkg/database"
	"quote-service/pkg/jwtutil"
	"quote-service/pkg/logger"
	"quote-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (.env is picked up if present)
	appConfig, err := config.Load("quote-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting quote-service", appConfig.LogConfig()...)

	// Initialize JWT signing key for the back-office endpoints
	jwtutil.SetSigningKey(appConfig.JWT.SigningKey)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database when a host is configured
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if database.GetDB() != nil {
		log.Info("Database connection established")
	} else {
		log.Warn("Lead storage disabled, no database host configured")
	}

	// Load the pricing catalog, falling back to embedded data
	store := catalog.NewStore(&appConfig.Catalog)
	if err := store.Load(context.Background()); err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}

	sessions := quote.NewSessions(appConfig.Lead.GuardWindow)
	dispatcher := leads.NewDispatcher(&appConfig.Lead)

	catalogHandler := handler.NewCatalogHandler(store)
	quoteHandler := handler.NewQuoteHandler(store, sessions)
	leadHandler := handler.NewLeadHandler(store, sessions, dispatcher)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public widget API
	e.GET("/api/catalog", catalogHandler.ListCatalog)
	e.GET("/api/products/:id", catalogHandler.GetProduct)
	e.POST("/api/quotes", quoteHandler.ComputeQuote)
	e.POST("/api/leads", leadHandler.SubmitLead)

	// Back-office API - JWT protected
	adminAPI := e.Group("/api/admin", mid.AuthMiddleware)
	adminAPI.POST("/catalog/reload", catalogHandler.ReloadCatalog)
	adminAPI.GET("/leads", leadHandler.ListLeads)
	adminAPI.GET("/leads/export", leadHandler.ExportLeads)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

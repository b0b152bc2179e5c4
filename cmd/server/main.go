package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carsearch/internal/config"
	"carsearch/internal/handler"
	"carsearch/internal/llm"
	"carsearch/internal/repository"
	"carsearch/internal/service"
	"carsearch/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("car search service starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer repo.Close()
	zlog.Info("connected to PostgreSQL")

	// Generation backend and services
	generator := llm.New(llm.Options{
		Provider:    cfg.LLM.Provider,
		OllamaURL:   cfg.LLM.OllamaURL,
		OllamaModel: cfg.LLM.OllamaModel,
		Timeout:     time.Duration(cfg.LLM.Timeout) * time.Second,
	}, zlog)
	zlog.Info("generation backend initialized", zap.String("backend", generator.Name()))

	extractor := service.NewExtractor(generator, zlog)
	hub := handler.NewHub(zlog)
	dispatcher := handler.NewMCPDispatcher(repo, zlog)
	wsHandler := handler.NewWebSocketHandler(hub, dispatcher, extractor, repo, zlog)
	restHandler := handler.NewRESTHandler(repo, zlog)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", restHandler.Health)
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// WebSocket gateway
	router.GET("/ws/cars", wsHandler.Handle)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/search", restHandler.Search)
		apiV1.GET("/cars/:id", restHandler.GetCar)
		apiV1.GET("/brands", restHandler.ListBrands)
		apiV1.GET("/colors", restHandler.ListColors)
		apiV1.GET("/engines", restHandler.ListEngines)
		apiV1.GET("/filters/options", restHandler.FilterOptions)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	zlog.Info("starting server", zap.String("addr", addr))

	go func() {
		if err := router.Run(addr); err != nil {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
}

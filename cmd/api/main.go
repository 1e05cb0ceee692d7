package main

import (
	"os"
	"strings"
	"time"

	"github.com/RF-YVY/HustleNest/internal/config"
	"github.com/RF-YVY/HustleNest/internal/database"
	"github.com/RF-YVY/HustleNest/internal/handler"
	"github.com/RF-YVY/HustleNest/internal/middleware"
	"github.com/RF-YVY/HustleNest/internal/repository"
	"github.com/RF-YVY/HustleNest/internal/sequence"
	"github.com/RF-YVY/HustleNest/internal/service"
	"github.com/RF-YVY/HustleNest/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           HustleNest Order Ledger API
// @version         1.0
// @description     Order, inventory and reporting backend for a small shop.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info().Msg("No configs/.env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	log.Info().Msg("Connected to PostgreSQL")

	secret := []byte(cfg.JWTSecret)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	settingsService := service.NewSettingsService(settingsRepo)
	generator := sequence.New(settingsService, orderRepo)
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, settingsService, generator, txManager, wsHub)
	forecastService := service.NewForecastService(productRepo, orderRepo, settingsService)
	reportService := service.NewReportService(orderRepo, productRepo, forecastService)
	notificationService := service.NewNotificationService(orderRepo, forecastService)
	authService := service.NewAuthService(cfg.AdminUser, cfg.AdminPasswordHash, secret)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	reportHandler := handler.NewReportHandler(reportService, forecastService, notificationService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOriginList()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret)
	})

	// Public routes
	authHandler.RegisterRoutes(router.Group(""))

	// Authenticated API
	api := router.Group("", middleware.RequireAuth(secret))
	productHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)
	settingsHandler.RegisterRoutes(api)

	log.Info().Str("port", cfg.Port).Msg("Server listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

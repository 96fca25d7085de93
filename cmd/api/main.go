package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/scm-platform/transport-service/internal/api/handlers"
	"github.com/scm-platform/transport-service/internal/application"
	kafkaInfra "github.com/scm-platform/transport-service/internal/infrastructure/kafka"
	mongoRepo "github.com/scm-platform/transport-service/internal/infrastructure/mongodb"
	"github.com/scm-platform/transport-service/pkg/kafka"
	"github.com/scm-platform/transport-service/pkg/logging"
	"github.com/scm-platform/transport-service/pkg/metrics"
	"github.com/scm-platform/transport-service/pkg/middleware"
	"github.com/scm-platform/transport-service/pkg/mongodb"
)

const serviceName = "transport-service"

func main() {
	// Load .env if present; environment variables take precedence.
	_ = godotenv.Load()

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting transport-service API")

	config := loadConfig()
	ctx := context.Background()

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	// Initialize MongoDB
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize Kafka producer
	producer := kafka.NewProducer(config.Kafka)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Initialize repositories
	db := mongoClient.Database()
	transportRepo := mongoRepo.NewTransportRequestRepository(db, m)
	senderStores := application.SenderStores{
		RawMaterial:   mongoRepo.NewRawMaterialStore(db, m),
		Manufacturers: mongoRepo.NewGoodsManufacturersStore(db, m),
		Distributors:  mongoRepo.NewGoodsDistributorsStore(db, m),
	}
	historyRepo := mongoRepo.NewHistoryRepository(db, m)
	previousRequestsRepo := mongoRepo.NewRawMaterialPreviousRequestRepository(db, m)

	// Initialize event publisher with circuit breaker
	publisher := kafkaInfra.NewEventPublisher(producer, m, logger)

	// Initialize application service
	transportService := application.NewTransportService(
		transportRepo,
		senderStores,
		historyRepo,
		previousRequestsRepo,
		publisher,
		m,
		logger,
	)

	// Setup Gin router with middleware
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)

	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes
	api := router.Group("/api/v1")
	transportHandlers := handlers.NewTransportHandlers(transportService, logger)
	transportHandlers.RegisterRoutes(api)

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

// loadConfig starts from the package defaults and overrides them from
// the environment.
func loadConfig() *Config {
	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = getEnv("MONGODB_URI", mongoConfig.URI)
	mongoConfig.Database = getEnv("MONGODB_DATABASE", mongoConfig.Database)
	mongoConfig.MaxPoolSize = getEnvUint64("MONGODB_MAX_POOL_SIZE", mongoConfig.MaxPoolSize)
	mongoConfig.MinPoolSize = getEnvUint64("MONGODB_MIN_POOL_SIZE", mongoConfig.MinPoolSize)
	mongoConfig.Username = getEnv("MONGODB_USERNAME", "")
	mongoConfig.Password = getEnv("MONGODB_PASSWORD", "")
	mongoConfig.AuthDB = getEnv("MONGODB_AUTH_DB", "admin")
	mongoConfig.ReplicaSet = getEnv("MONGODB_REPLICA_SET", "")

	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.Brokers = []string{getEnv("KAFKA_BROKERS", kafkaConfig.Brokers[0])}
	kafkaConfig.ClientID = serviceName

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8004"),
		MongoDB:    mongoConfig,
		Kafka:      kafkaConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Package main is the entry point for the Energix Billing Fulfillment Service.
// @title Energix Billing Fulfillment API
// @version 1.0
// @description Dialogflow ES webhook fulfillment backend for the Energix billing assistant

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8008
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/energix/fulfillment-service/docs"
	"github.com/energix/fulfillment-service/internal/api/handlers"
	"github.com/energix/fulfillment-service/internal/api/middleware"
	"github.com/energix/fulfillment-service/internal/api/routes"
	"github.com/energix/fulfillment-service/internal/config"
	"github.com/energix/fulfillment-service/internal/core/cache"
	"github.com/energix/fulfillment-service/internal/core/datastore"
	rediscache "github.com/energix/fulfillment-service/internal/infrastructure/cache/redis"
	"github.com/energix/fulfillment-service/internal/infrastructure/datastore/jsonfile"
	"github.com/energix/fulfillment-service/internal/infrastructure/datastore/mongodb"
	"github.com/energix/fulfillment-service/internal/pkg/encryption"
	"github.com/energix/fulfillment-service/internal/services/billing"
	"github.com/energix/fulfillment-service/internal/services/convlog"
	"github.com/energix/fulfillment-service/internal/services/dispatch"
	"github.com/energix/fulfillment-service/internal/services/fulfillment"
	"github.com/energix/fulfillment-service/internal/services/identity"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	setupLogger(cfg.Log)

	ctx := context.Background()

	// Initialize the billing data store using factory pattern
	store, err := createDatastore(ctx, cfg.Datastore)
	if err != nil {
		log.Fatalf("failed to initialize data store: %v", err)
	}
	defer store.Close(ctx)

	// Initialize the optional turn log cache
	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		log.Fatalf("failed to initialize cache client: %v", err)
	}
	if cacheClient != nil {
		defer cacheClient.Close()
	}

	// Initialize the optional turn log service
	turnLog, err := createTurnLog(cfg, cacheClient)
	if err != nil {
		log.Fatalf("failed to initialize turn log: %v", err)
	}

	// Wire the fulfillment core
	dispatcher := dispatch.New(store)
	billing.Register(dispatcher)
	resolver := identity.NewResolver(store)
	fulfillmentSvc := fulfillment.NewService(dispatcher, resolver, fulfillment.Config{
		StatePendingLifespan: cfg.Contexts.StatePendingLifespan,
		StateLifespan:        cfg.Contexts.StateLifespan,
		AwaitingLifespan:     cfg.Contexts.AwaitingLifespan,
		VerifiedLifespan:     cfg.Contexts.VerifiedLifespan,
	})

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, store, cacheClient, fulfillmentSvc, dispatcher, turnLog)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// setupLogger configures the global zerolog logger.
func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Format == "console" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// createDatastore creates a data store based on the configuration.
func createDatastore(ctx context.Context, cfg config.DatastoreConfig) (datastore.Store, error) {
	storeType := datastore.Type(cfg.Type)

	switch storeType {
	case datastore.TypeJSONFile:
		return jsonfile.NewStore(cfg.DataPath)
	case datastore.TypeMongoDB:
		store, err := mongodb.NewStore(ctx, &mongodb.Config{
			URI:          cfg.MongoURI,
			DatabaseName: cfg.MongoDB,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		log.Fatalf("unsupported datastore type: %s", cfg.Type)
		return nil, nil
	}
}

// createCacheClient creates a cache client based on the configuration.
// Returns nil when the cache is disabled.
func createCacheClient(cfg config.CacheConfig) (cache.Client, error) {
	cacheType := cache.Type(cfg.Type)

	switch cacheType {
	case cache.TypeNone:
		return nil, nil
	case cache.TypeRedis:
		return rediscache.NewCache(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.TTL,
		})
	default:
		log.Fatalf("unsupported cache type: %s", cfg.Type)
		return nil, nil
	}
}

// createTurnLog creates the turn log service when the cache is
// enabled.
func createTurnLog(cfg *config.Config, cacheClient cache.Client) (*convlog.Service, error) {
	if cacheClient == nil {
		return nil, nil
	}

	var encryptor encryption.Encryptor
	if cfg.Webhook.EncryptionKey == "" {
		log.Println("warning: TURNLOG_ENCRYPTION_KEY not set, using NoOp encryptor")
		encryptor = encryption.NewNoOpEncryptor()
	} else {
		aes, err := encryption.NewAESEncryptor(cfg.Webhook.EncryptionKey)
		if err != nil {
			return nil, err
		}
		encryptor = aes
	}

	return convlog.NewService(&convlog.Config{
		CacheClient: cacheClient,
		Encryptor:   encryptor,
		TTL:         cfg.Cache.TTL,
	})
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, store datastore.Store, cacheClient cache.Client, fulfillmentSvc *fulfillment.Service, dispatcher *dispatch.Dispatcher, turnLog *convlog.Service) *gin.Engine {
	router := gin.New()

	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	authMw := middleware.NewAuthMiddleware(cfg.Webhook.Token)

	healthHandler := handlers.NewHealthHandler(store, cacheClient)
	webhookHandler := handlers.NewWebhookHandler(fulfillmentSvc, dispatcher, turnLog)

	routesCfg := &routes.Config{
		HealthHandler:  healthHandler,
		WebhookHandler: webhookHandler,
		AuthMiddleware: authMw,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw)

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

package main

import (
	"checkout-service/cmd/migration"
	"checkout-service/internal/app/config"
	"checkout-service/internal/app/delivery/http/controllers"
	"checkout-service/internal/app/delivery/http/middlewares"
	"checkout-service/internal/app/delivery/http/routers"
	"checkout-service/internal/app/drivers/database"
	"checkout-service/internal/app/drivers/logger"
	"checkout-service/internal/app/drivers/messaging"
	"checkout-service/internal/app/drivers/storage"
	"checkout-service/internal/app/services/core/checkout"
	"checkout-service/internal/app/services/core/history"
	"checkout-service/internal/app/services/core/session"
	"checkout-service/internal/app/services/shared/eventpublisher"
	"checkout-service/internal/app/services/shared/httpclient"
	"checkout-service/internal/app/services/shared/identityapi"
	"checkout-service/internal/app/services/shared/locker"
	"checkout-service/internal/app/services/shared/metrics"
	"checkout-service/internal/app/services/shared/orderapi"
	"checkout-service/internal/app/services/shared/pricingapi"
	"checkout-service/internal/app/services/shared/ratelimiter"
	"checkout-service/internal/app/services/shared/redis"
	minioStorage "checkout-service/internal/app/services/shared/storage"
	"checkout-service/internal/pkg/utils"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	zapLogger.Info("Starting checkout service",
		zap.String("version", Version),
		zap.String("tag", Tag),
		zap.String("env", internalConfig.App.Env),
	)

	mongoDB := database.NewMongoDB(driverConfig)
	migration.Run(mongoDB, driverConfig.MongoDB.DbName)

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Redis:          database.NewRedisClient(driverConfig),
		MongoDB:        mongoDB,
		Logger:         zapLogger,
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Minio:          storage.NewMinio(driverConfig, internalConfig),
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	err := bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatalf("Error bootstrapping the app: %v", err)
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: bootstrap.Router,
	}

	go func() {
		zapLogger.Info("Server listening", zap.String("address", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Error releasing resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig

	// Metrics
	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)

	// Upstream clients
	defaultTimeout := time.Duration(internalConfig.Upstream.RequestTimeoutInSeconds) * time.Second
	orderTimeout := time.Duration(internalConfig.Upstream.OrderAPITimeoutInSeconds) * time.Second
	orderHTTPClient := httpclient.NewClient(
		"order_api",
		internalConfig.Upstream.OrderBaseUrl,
		orderTimeout,
		internalConfig.Upstream,
		internalConfig.Breaker,
		checkoutMetrics,
		bootstrap.Logger,
	)
	pricingHTTPClient := httpclient.NewClient(
		"pricing_api",
		internalConfig.Upstream.PricingBaseUrl,
		defaultTimeout,
		internalConfig.Upstream,
		internalConfig.Breaker,
		checkoutMetrics,
		bootstrap.Logger,
	)
	identityHTTPClient := httpclient.NewClient(
		"identity_api",
		internalConfig.Upstream.IdentityBaseUrl,
		defaultTimeout,
		internalConfig.Upstream,
		internalConfig.Breaker,
		checkoutMetrics,
		bootstrap.Logger,
	)
	orderAPI := orderapi.NewOrderAPIClient(orderHTTPClient, bootstrap.Logger)
	pricingAPI := pricingapi.NewPricingAPIClient(pricingHTTPClient, bootstrap.Logger)
	identityAPI := identityapi.NewIdentityAPIClient(identityHTTPClient, bootstrap.Logger)

	// Session context
	sessionFactory := session.NewSessionContextFactory(identityAPI, internalConfig.JWT.Secret, bootstrap.Logger)

	// Messaging and storage
	eventPublisher, err := eventpublisher.NewEventPublisher(bootstrap.RabbitMQ, internalConfig.RabbitMQ.CheckoutEventsQueue, bootstrap.Logger)
	if err != nil {
		return err
	}
	receiptStorage := minioStorage.NewMinioStorage(bootstrap.Minio, bootstrap.Logger)

	// Checkout
	sessionRepository := checkout.NewCheckoutSessionRedisRepository(bootstrap.Redis, redisRepository)
	auditRepository := checkout.NewCheckoutAuditMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	promotionLimiter := ratelimiter.NewAttemptLimiter(
		internalConfig.Checkout.PromotionAttemptsPerMinute,
		internalConfig.Checkout.PromotionAttemptsBurst,
	)
	moneyFormatter := utils.NewMoneyFormatter(
		internalConfig.Currency.Locale,
		internalConfig.Currency.Primary,
		internalConfig.Currency.Display,
		internalConfig.Currency.DisplayRate,
	)
	checkoutUsecase := checkout.NewCheckoutUsecase(
		sessionRepository,
		auditRepository,
		lockerService,
		orderAPI,
		pricingAPI,
		identityAPI,
		eventPublisher,
		receiptStorage,
		promotionLimiter,
		checkoutMetrics,
		moneyFormatter,
		internalConfig,
		bootstrap.Logger,
	)
	checkoutController := controllers.NewCheckoutController(bootstrap.Logger, checkoutUsecase, internalConfig)

	// History
	historyUsecase := history.NewHistoryUsecase(orderAPI, bootstrap.Logger)
	historyController := controllers.NewHistoryController(bootstrap.Logger, historyUsecase, internalConfig)

	// Abandoned draft sweeper
	abandonedDraftWorker := checkout.NewAbandonedDraftWorker(
		bootstrap.Logger,
		internalConfig,
		lockerService,
		sessionRepository,
		eventPublisher,
	)
	abandonedDraftWorker.Start(context.Background())
	bootstrap.WorkerStop = abandonedDraftWorker.Stop

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, sessionFactory, internalConfig)

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, checkoutController, historyController)
	return nil
}

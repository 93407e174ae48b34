package config

import (
	"checkout-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "checkout"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			FrontendDomain:             utils.GetEnvString("APP_FRONTEND_DOMAIN", "http://localhost:3000"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 15),
		},
		JWT: AppJWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Upstream: AppUpstream{
			OrderBaseUrl:                  utils.GetEnvString("ORDER_API_BASE_URL", "http://localhost:4000/api"),
			PricingBaseUrl:                utils.GetEnvString("PRICING_API_BASE_URL", "http://localhost:4000/api"),
			IdentityBaseUrl:               utils.GetEnvString("IDENTITY_API_BASE_URL", "http://localhost:4000/api"),
			RequestTimeoutInSeconds:       utils.GetEnvInt("UPSTREAM_REQUEST_TIMEOUT_IN_SECONDS", 10),
			OrderAPITimeoutInSeconds:      utils.GetEnvInt("ORDER_API_TIMEOUT_IN_SECONDS", 30),
			MaxIdleConnectionsPerUpstream: utils.GetEnvInt("UPSTREAM_MAX_IDLE_CONNECTIONS", 20),
		},
		Breaker: AppBreaker{
			MaxRequests:          uint32(utils.GetEnvInt("BREAKER_HALF_OPEN_MAX_REQUESTS", 1)),
			IntervalInSeconds:    utils.GetEnvInt("BREAKER_INTERVAL_IN_SECONDS", 60),
			OpenTimeoutInSeconds: utils.GetEnvInt("BREAKER_OPEN_TIMEOUT_IN_SECONDS", 30),
			ConsecutiveFailures:  uint32(utils.GetEnvInt("BREAKER_CONSECUTIVE_FAILURES", 5)),
		},
		Checkout: AppCheckout{
			SessionTTLInMinutes:        utils.GetEnvInt("CHECKOUT_SESSION_TTL_IN_MINUTES", 60),
			LockTTLInSeconds:           utils.GetEnvInt("CHECKOUT_LOCK_TTL_IN_SECONDS", 30),
			AbandonedDraftSweepCron:    utils.GetEnvString("ABANDONED_DRAFT_SWEEP_CRON", "@every 5m"),
			AbandonedDraftAgeInMinutes: utils.GetEnvInt("ABANDONED_DRAFT_AGE_IN_MINUTES", 60),
			PromotionAttemptsPerMinute: utils.GetEnvInt("PROMOTION_ATTEMPTS_PER_MINUTE", 5),
			PromotionAttemptsBurst:     utils.GetEnvInt("PROMOTION_ATTEMPTS_BURST", 3),
		},
		Currency: AppCurrency{
			Primary:     utils.GetEnvString("PRIMARY_CURRENCY", "COP"),
			Display:     utils.GetEnvString("DISPLAY_CURRENCY", "USD"),
			DisplayRate: utils.GetEnvFloat("DISPLAY_CURRENCY_RATE", 0.00025),
			Locale:      utils.GetEnvString("CURRENCY_LOCALE", "es-CO"),
		},
		Simulation: AppSimulation{
			PaymentSimulationEnabled: utils.GetEnvBool("PAYMENT_SIMULATION_ENABLED", false),
		},
		Minio: AppMinio{
			ReceiptBucketName:        utils.GetEnvString("MINIO_RECEIPT_BUCKET_NAME", "checkout-receipts"),
			ReceiptMaxUploadSizeInMB: utils.GetEnvInt64("MINIO_RECEIPT_MAX_UPLOAD_SIZE_IN_MB", 5),
		},
		RabbitMQ: AppRabbitMQ{
			CheckoutEventsQueue: utils.GetEnvString("RABBITMQ_CHECKOUT_EVENTS_QUEUE", "checkout_events"),
		},
	}
}

// SimulationAllowed reports whether the development-only payment simulation
// endpoints may be exposed. Production never exposes them.
func (c *InternalConfig) SimulationAllowed() bool {
	return c.Simulation.PaymentSimulationEnabled && c.App.Env != "production"
}

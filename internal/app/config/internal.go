package config

type InternalConfig struct {
	App        App           `mapstructure:"app"`
	JWT        AppJWT        `mapstructure:"jwt"`
	Upstream   AppUpstream   `mapstructure:"upstream"`
	Breaker    AppBreaker    `mapstructure:"breaker"`
	Checkout   AppCheckout   `mapstructure:"checkout"`
	Currency   AppCurrency   `mapstructure:"currency"`
	Simulation AppSimulation `mapstructure:"simulation"`
	Minio      AppMinio      `mapstructure:"minio"`
	RabbitMQ   AppRabbitMQ   `mapstructure:"rabbitmq"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	Address                    string `mapstructure:"address"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	FrontendDomain             string `mapstructure:"frontend_domain"`
	MaxRequests                int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	MaxTimeRequestsPerSeconds  int    `mapstructure:"max_time_requests_per_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
	RequestTimeoutInSeconds    int    `mapstructure:"request_timeout_in_seconds"`
}

type AppJWT struct {
	// Secret verifies the HS256 access tokens issued by the Identity API.
	Secret string `mapstructure:"secret"`
}

type AppUpstream struct {
	OrderBaseUrl                  string `mapstructure:"order_base_url"`
	PricingBaseUrl                string `mapstructure:"pricing_base_url"`
	IdentityBaseUrl               string `mapstructure:"identity_base_url"`
	RequestTimeoutInSeconds       int    `mapstructure:"request_timeout_in_seconds"`
	OrderAPITimeoutInSeconds      int    `mapstructure:"order_api_timeout_in_seconds"`
	MaxIdleConnectionsPerUpstream int    `mapstructure:"max_idle_connections_per_upstream"`
}

// AppBreaker configures the circuit breaker wrapped around every upstream client.
type AppBreaker struct {
	MaxRequests          uint32 `mapstructure:"max_requests"`
	IntervalInSeconds    int    `mapstructure:"interval_in_seconds"`
	OpenTimeoutInSeconds int    `mapstructure:"open_timeout_in_seconds"`
	ConsecutiveFailures  uint32 `mapstructure:"consecutive_failures"`
}

type AppCheckout struct {
	SessionTTLInMinutes        int    `mapstructure:"session_ttl_in_minutes"`
	LockTTLInSeconds           int    `mapstructure:"lock_ttl_in_seconds"`
	AbandonedDraftSweepCron    string `mapstructure:"abandoned_draft_sweep_cron"`
	AbandonedDraftAgeInMinutes int    `mapstructure:"abandoned_draft_age_in_minutes"`
	PromotionAttemptsPerMinute int    `mapstructure:"promotion_attempts_per_minute"`
	PromotionAttemptsBurst     int    `mapstructure:"promotion_attempts_burst"`
}

type AppCurrency struct {
	Primary     string  `mapstructure:"primary"`
	Display     string  `mapstructure:"display"`
	DisplayRate float64 `mapstructure:"display_rate"`
	Locale      string  `mapstructure:"locale"`
}

// AppSimulation gates the development-only payment simulation endpoints.
type AppSimulation struct {
	PaymentSimulationEnabled bool `mapstructure:"payment_simulation_enabled"`
}

type AppMinio struct {
	ReceiptBucketName        string `mapstructure:"receipt_bucket_name"`
	ReceiptMaxUploadSizeInMB int64  `mapstructure:"receipt_max_upload_size_in_mb"`
}

type AppRabbitMQ struct {
	CheckoutEventsQueue string `mapstructure:"checkout_events_queue"`
}

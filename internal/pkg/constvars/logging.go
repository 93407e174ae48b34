package constvars

const (
	LoggingRequestIDKey       = "request_id"
	LoggingRequestKey         = "request"
	LoggingResponseKey        = "response"
	LoggingEndpointKey        = "endpoint"
	LoggingMethodKey          = "method"
	LoggingRemoteAddrKey      = "remote_addr"
	LoggingUserAgentKey       = "user_agent"
	LoggingQueryKey           = "query"
	LoggingStatusCodeKey      = "status_code"
	LoggingDurationKey        = "duration"
	LoggingSuccessKey         = "success"
	LoggingErrorTypeKey       = "error_type"
	LoggingOperationKey       = "operation"
	LoggingErrorCodeKey       = "error_code"
	LoggingErrorMessageKey    = "error_message"
	LoggingUserIDKey          = "user_id"
	LoggingSessionIDKey       = "checkout_session_id"
	LoggingStepKey            = "step"
	LoggingFromStepKey        = "from_step"
	LoggingToStepKey          = "to_step"
	LoggingOrderIDKey         = "order_id"
	LoggingReferenceKey       = "reference"
	LoggingPaymentMethodKey   = "payment_method"
	LoggingPromotionCodeKey   = "promotion_code"
	LoggingRedisKey           = "redis_key"
	LoggingLockValueKey       = "lock_value"
	LoggingLockExpirationKey  = "lock_expiration"
	LoggingLockStoredValueKey = "lock_stored_value"
	LoggingUpstreamKey        = "upstream"
	LoggingURLKey             = "url"
	LoggingQueueKey           = "queue"
	LoggingObjectKey          = "object_key"
	LoggingCountKey           = "count"
)

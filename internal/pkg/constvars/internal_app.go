package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_SESSION_CONTEXT_KEY      ContextKey = "session_context"
)

const (
	REQUEST_ID_PREFIX = "CHKT_SVC_"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
)

const (
	AppPaginationUrlFormat = "%s?limit=%d&offset=%d"
	DefaultHistoryLimit    = 10
	MaxHistoryLimit        = 100
)

const (
	RedisKeyCheckoutSessionFormat = "checkout:session:%s"
	RedisKeyCheckoutLockFormat    = "checkout:lock:%s"
	RedisKeyOpenDraftsSet         = "checkout:drafts:open"
	RedisKeySweeperLeaderLock     = "checkout:sweeper:leader"
)

const (
	MongoCollectionCheckoutEvents = "checkout_events"
)

const (
	EventCheckoutCompleted      = "checkout.completed"
	EventCheckoutOrderAbandoned = "checkout.order_abandoned"
)

const (
	ReceiptObjectKeyFormat = "transfer-receipts/%s/%s%s"
	ReceiptMaxUploadSizeMB = 5
)

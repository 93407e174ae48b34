package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":          "is required",
	"min":               "must be at least %s",
	"max":               "must be at most %s",
	"gt":                "must be greater than %s",
	"gte":               "must be greater than or equal to %s",
	"lte":               "must be less than or equal to %s",
	"oneof":             "must be one of [%s]",
	"uuid":              "must be a valid UUID",
	"required_if":       "is required when %s",
	"promotion_code":    "must contain only letters, digits, dashes or underscores",
	"checkout_kind":     "must be either 'purchase' or 'subscription'",
	"payment_method":    "must be one of [CARD, ONLINE_BANKING, MANUAL_TRANSFER]",
	"cart_action_type":  "must be one of [add, increment, decrement, set_quantity, remove, clear]",
	"card_result_state": "must be either 'success' or 'error'",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":         true,
	"max":         true,
	"gt":          true,
	"gte":         true,
	"lte":         true,
	"oneof":       true,
	"required_if": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientUpstreamUnavailable           = "the payment service is not available right now, please try again"
	ErrClientTooManyRequests               = "too many attempts, please wait a moment and try again"
	ErrClientRequestTooLarge               = "the request is too large"

	ErrClientCheckoutSessionNotFound  = "your checkout session has expired, please start again"
	ErrClientCheckoutCartEmpty        = "your cart is empty"
	ErrClientCheckoutAddressMissing   = "please select a delivery address"
	ErrClientCheckoutAddressUnknown   = "the selected delivery address does not belong to your account"
	ErrClientCheckoutMethodMissing    = "please select a payment method"
	ErrClientCheckoutIllegalStep      = "this action is not available at the current checkout step"
	ErrClientCheckoutInFlight         = "a request for this checkout is already in progress"
	ErrClientCheckoutStale            = "your checkout changed in another window, please reload"
	ErrClientCheckoutQuantityInvalid  = "quantity must be at least 1, remove the item instead"
	ErrClientCheckoutLineNotFound     = "the product is not in your cart"
	ErrClientCheckoutPriceUnavailable = "the product price is not available"
	ErrClientPromotionAlreadyApplied  = "a promotion code is already applied, clear it before trying another"
	ErrClientPromotionCodeEmpty       = "promotion code is required"
	ErrClientPromotionRejected        = "the promotion code is not valid"
	ErrClientPaymentMethodMismatch    = "this action is not available for the selected payment method"
	ErrClientSimulationDisabled       = "payment simulation is not available"
	ErrClientOrderMissing             = "the order has not been created yet"
	ErrClientReceiptInvalid           = "the receipt must be a JPEG, PNG or PDF file"
	ErrClientReceiptTooLarge          = "the receipt file is too large"
	ErrClientPaymentNotConfirmed      = "the payment has not been confirmed yet, try again in a moment"
	ErrClientPaymentOrderClosed       = "the order was closed before the payment was confirmed, go back and place it again"
)

// Error messages for developers
const (
	ErrDevInvalidInput            = "invalid input"
	ErrDevValidationFailed        = "validation failed"
	ErrDevCannotParseJSON         = "cannot parse JSON"
	ErrDevCannotMarshalJSON       = "cannot marshal JSON"
	ErrDevCannotParseMultipart    = "cannot parse multipart form"
	ErrDevMissingRequestID        = "request ID missing from context"
	ErrDevRequestBodyTooLarge     = "request body exceeds %d bytes"
	ErrDevMissingSessionContext   = "session context missing from request context"
	ErrDevURLParamValidation      = "URL param %s failed validation"
	ErrDevServerProcess           = "server failed to process request"
	ErrDevServerDeadlineExceeded  = "deadline exceeded"
	ErrDevCreateHTTPRequest       = "failed to create HTTP request"
	ErrDevSendHTTPRequest         = "failed to send HTTP request"
	ErrDevReadHTTPResponse        = "failed to read HTTP response"
	ErrDevDecodeUpstreamResponse  = "failed to decode %s response"
	ErrDevUpstreamStatus          = "%s responded with status %d"
	ErrDevUpstreamCircuitOpen     = "circuit breaker for %s is open"
	ErrDevUpstreamUnknownIntent   = "order API response carries no recognizable payment intent"
	ErrDevAuthSigningMethod       = "unexpected signing method %v"
	ErrDevAuthTokenMissing        = "token missing"
	ErrDevAuthTokenInvalid        = "invalid token"
	ErrDevAuthSessionInvalidated  = "session invalidated after upstream 401"
	ErrDevRedisGetData            = "failed to get data from redis"
	ErrDevRedisSetData            = "failed to set data into redis"
	ErrDevRedisDeleteData         = "failed to delete data from redis"
	ErrDevRedisAddToSet           = "failed to add members to redis set"
	ErrDevRedisRemoveFromSet      = "failed to remove members from redis set"
	ErrDevRedisSMembers           = "failed to get redis set members"
	ErrDevRedisExpire             = "failed to refresh redis key expiration"
	ErrDevRedisUnlock             = "failed to release redis lock"
	ErrDevMongoInsertDocument     = "failed to insert document into database"
	ErrDevMongoFindDocument       = "failed when do find document on database"
	ErrDevRabbitMQPublish         = "failed to publish message to queue %s"
	ErrDevMinioCreateObject       = "failed to create object in bucket %s"
	ErrDevCheckoutSessionNotFound = "checkout session %s not found"
	ErrDevCheckoutSessionForeign  = "checkout session %s belongs to another user"
	ErrDevCheckoutIllegalStep     = "illegal checkout transition %s from step %s"
	ErrDevCheckoutLocked          = "checkout session %s is locked by an in-flight request"
	ErrDevCheckoutVersionConflict = "checkout session %s version conflict"
	ErrDevCheckoutPromotionLimit  = "promotion attempt limit reached for session %s"
	ErrDevSimulationDisabled      = "payment simulation disabled by configuration"
	ErrDevPaymentMethodMismatch   = "action %s is not available for payment method %s"
)

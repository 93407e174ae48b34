package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"

	CheckoutSessionOpenedMessage       = "checkout session opened successfully"
	CheckoutSessionFetchedMessage      = "checkout session fetched successfully"
	CheckoutSessionAbandonedMessage    = "checkout session abandoned successfully"
	CheckoutCartUpdatedMessage         = "cart updated successfully"
	CheckoutCartSyncedMessage          = "cart prices synchronized successfully"
	CheckoutPromotionAppliedMessage    = "promotion applied successfully"
	CheckoutPromotionClearedMessage    = "promotion cleared successfully"
	CheckoutAddressSelectedMessage     = "delivery address selected successfully"
	CheckoutMethodSelectedMessage      = "payment method selected successfully"
	CheckoutStepAdvancedMessage        = "checkout moved to the next step"
	CheckoutStepReturnedMessage        = "checkout moved to the previous step"
	CheckoutOrderCreatedMessage        = "order created successfully"
	CheckoutPaymentConfirmedMessage    = "payment confirmed successfully"
	CheckoutPaymentRejectedMessage     = "payment was not completed"
	CheckoutInstructionsAckMessage     = "transfer instructions acknowledged, payment pending manual verification"
	CheckoutReceiptAttachedMessage     = "transfer receipt uploaded successfully"
	CheckoutPaymentSimulatedMessage    = "payment simulated successfully"
	CheckoutAddressesFetchedMessage    = "addresses fetched successfully"
	HistoryPurchasesFetchedMessage     = "purchases fetched successfully"
	HistorySubscriptionsFetchedMessage = "subscriptions fetched successfully"
)

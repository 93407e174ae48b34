package contracts

import (
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"context"
)

// OrderAPIClient talks to the Order/Payment API. Every call forwards the
// caller's access token.
type OrderAPIClient interface {
	CreatePurchase(ctx context.Context, token string, payload *requests.CreatePurchasePayload) (*models.CreatedOrder, error)
	CreateSubscription(ctx context.Context, token string, payload *requests.CreateSubscriptionPayload) (*models.CreatedOrder, error)
	ConfirmPurchase(ctx context.Context, token, purchaseID string, payload *requests.ConfirmPaymentPayload) (models.OrderState, error)
	ConfirmSubscription(ctx context.Context, token, subscriptionID string, payload *requests.ConfirmPaymentPayload) (models.OrderState, error)
	SimulateCardSuccess(ctx context.Context, token, paymentOrderID string) error
	SimulateOnlineBanking(ctx context.Context, token, paymentOrderID string) error
	ListPurchases(ctx context.Context, token string, limit, offset int) (*responses.HistoryPage, error)
	ListSubscriptions(ctx context.Context, token string, limit, offset int) (*responses.HistoryPage, error)
}

type PricingAPIClient interface {
	GetProductPrices(ctx context.Context, token string, productIDs []string) (map[string]int64, error)
	ValidatePromotion(ctx context.Context, token string, payload *requests.ValidatePromotionPayload) (*responses.PromotionValidationResult, error)
}

type IdentityAPIClient interface {
	GetProfile(ctx context.Context, token string) (*models.User, error)
	ListAddresses(ctx context.Context, token string) ([]models.DeliveryAddress, error)
}

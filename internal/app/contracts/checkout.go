package contracts

import (
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"context"
	"time"
)

type CheckoutUsecase interface {
	OpenSession(ctx context.Context, sc SessionContext, request *requests.OpenCheckoutSession) (*responses.CheckoutSession, error)
	GetSession(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error)
	DeleteSession(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) error
	ApplyCartAction(ctx context.Context, sc SessionContext, request *requests.CartAction) (*responses.CheckoutSession, error)
	SyncPrices(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error)
	ApplyPromotion(ctx context.Context, sc SessionContext, request *requests.ApplyPromotion) (*responses.CheckoutSession, error)
	ClearPromotion(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error)
	SelectAddress(ctx context.Context, sc SessionContext, request *requests.SelectAddress) (*responses.CheckoutSession, error)
	SelectPaymentMethod(ctx context.Context, sc SessionContext, request *requests.SelectPaymentMethod) (*responses.CheckoutSession, error)
	Next(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error)
	Back(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error)
	CreateOrder(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error)
	ReportCardResult(ctx context.Context, sc SessionContext, request *requests.CardResult) (*responses.CheckoutSession, error)
	ConfirmOnlineBanking(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error)
	AcknowledgeInstructions(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error)
	AttachTransferReceipt(ctx context.Context, sc SessionContext, request *requests.AttachTransferReceipt) (*responses.CheckoutSession, error)
	SimulatePayment(ctx context.Context, sc SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error)
	ListAddresses(ctx context.Context, sc SessionContext) (*responses.DeliveryAddresses, error)
}

type CheckoutSessionRepository interface {
	Create(ctx context.Context, session *models.CheckoutSession, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
	// Save stores session when the stored version still equals expectedVersion
	// and bumps session.Version.
	Save(ctx context.Context, session *models.CheckoutSession, expectedVersion int64) error
	Delete(ctx context.Context, sessionID string) error
	TrackOpenDraft(ctx context.Context, sessionID, orderID string) error
	UntrackOpenDraft(ctx context.Context, sessionID, orderID string) error
	ListOpenDrafts(ctx context.Context) ([]models.OpenDraft, error)
}

type CheckoutAuditRepository interface {
	Record(ctx context.Context, event *models.CheckoutEvent) error
	ListBySession(ctx context.Context, sessionID string) ([]models.CheckoutEvent, error)
}

type CheckoutMetrics interface {
	ObserveTransition(from, to models.CheckoutStep)
	ObserveOrderCreation(kind models.CheckoutKind, result string)
	ObservePaymentOutcome(method models.PaymentMethod, outcome string)
	ObserveUpstreamCall(upstream, operation string, statusCode int, duration time.Duration)
}

type HistoryUsecase interface {
	ListPurchases(ctx context.Context, sc SessionContext, request *requests.HistoryPagination) (*responses.HistoryPage, error)
	ListSubscriptions(ctx context.Context, sc SessionContext, request *requests.HistoryPagination) (*responses.HistoryPage, error)
}

package checkout

import (
	"checkout-service/internal/app/config"
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/app/services/shared/locker"
	"checkout-service/internal/app/services/shared/metrics"
	"checkout-service/internal/app/services/shared/ratelimiter"
	redisRepository "checkout-service/internal/app/services/shared/redis"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/utils"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type fakeSessionContext struct {
	mu          sync.Mutex
	user        *models.User
	token       string
	invalidated bool
	refreshes   int
	refreshErr  error
}

func newFakeSessionContext(userID string) *fakeSessionContext {
	return &fakeSessionContext{
		user:  &models.User{ID: userID, Email: userID + "@example.com", Name: userID},
		token: "token-" + userID,
	}
}

func (s *fakeSessionContext) CurrentUser() (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invalidated {
		return nil, false
	}
	return s.user, true
}

func (s *fakeSessionContext) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

func (s *fakeSessionContext) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	return s.refreshErr
}

func (s *fakeSessionContext) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = true
}

func (s *fakeSessionContext) Token() string { return s.token }

func (s *fakeSessionContext) isInvalidated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidated
}

// fakeOrderAPI answers like the Order API: the intent follows metodoPago.
// When started and release are set, CreatePurchase reports that it began and
// waits for release.
type fakeOrderAPI struct {
	mu            sync.Mutex
	purchases     []requests.CreatePurchasePayload
	subscriptions []requests.CreateSubscriptionPayload
	confirms      []requests.ConfirmPaymentPayload
	simulations   int
	createErr     error
	confirmErr    error
	confirmState  models.OrderState
	wrongIntent   bool
	started       chan struct{}
	release       chan struct{}
}

func (f *fakeOrderAPI) created(kind string, n int, method string) *models.CreatedOrder {
	orderID := fmt.Sprintf("%s-%d", kind, n)
	reference := "REF-" + orderID
	order := &models.CreatedOrder{
		OrderID:        orderID,
		PaymentOrderID: "pay-" + orderID,
		State:          models.OrderStatePending,
		Intent:         models.PaymentIntent{Reference: reference, Currency: "COP"},
	}
	if f.wrongIntent {
		method = "consignacion"
	}
	switch method {
	case "stripe":
		order.Intent.Kind = models.IntentCard
		order.Intent.Card = &models.CardIntent{ClientSecret: "secret-" + orderID}
	case "pse":
		order.Intent.Kind = models.IntentBankRedirect
		order.Intent.BankRedirect = &models.BankRedirectIntent{Reference: reference, BankURL: "https://bank.example/" + orderID}
	default:
		order.Intent.Kind = models.IntentManualTransfer
		order.Intent.ManualTransfer = &models.ManualTransferIntent{
			Reference:    reference,
			Instructions: models.TransferInstructions{Bank: "Banco Ejemplo", AccountNumber: "123"},
		}
	}
	return order
}

func (f *fakeOrderAPI) CreatePurchase(ctx context.Context, token string, payload *requests.CreatePurchasePayload) (*models.CreatedOrder, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.purchases = append(f.purchases, *payload)
	return f.created("order", len(f.purchases), payload.MetodoPago), nil
}

func (f *fakeOrderAPI) CreateSubscription(ctx context.Context, token string, payload *requests.CreateSubscriptionPayload) (*models.CreatedOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.subscriptions = append(f.subscriptions, *payload)
	return f.created("subscription", len(f.subscriptions), payload.MetodoPago), nil
}

func (f *fakeOrderAPI) confirm(payload *requests.ConfirmPaymentPayload) (models.OrderState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmErr != nil {
		return "", f.confirmErr
	}
	f.confirms = append(f.confirms, *payload)
	if f.confirmState != "" {
		return f.confirmState, nil
	}
	return models.OrderStatePaid, nil
}

func (f *fakeOrderAPI) ConfirmPurchase(ctx context.Context, token, purchaseID string, payload *requests.ConfirmPaymentPayload) (models.OrderState, error) {
	return f.confirm(payload)
}

func (f *fakeOrderAPI) ConfirmSubscription(ctx context.Context, token, subscriptionID string, payload *requests.ConfirmPaymentPayload) (models.OrderState, error) {
	return f.confirm(payload)
}

func (f *fakeOrderAPI) SimulateCardSuccess(ctx context.Context, token, paymentOrderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simulations++
	return nil
}

func (f *fakeOrderAPI) SimulateOnlineBanking(ctx context.Context, token, paymentOrderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simulations++
	return nil
}

func (f *fakeOrderAPI) ListPurchases(ctx context.Context, token string, limit, offset int) (*responses.HistoryPage, error) {
	return &responses.HistoryPage{}, nil
}

func (f *fakeOrderAPI) ListSubscriptions(ctx context.Context, token string, limit, offset int) (*responses.HistoryPage, error) {
	return &responses.HistoryPage{}, nil
}

func (f *fakeOrderAPI) purchaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.purchases)
}

func (f *fakeOrderAPI) confirmCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.confirms)
}

type fakePricingAPI struct {
	mu           sync.Mutex
	prices       map[string]int64
	promotion    *responses.PromotionValidationResult
	promotionErr error
	pricesErr    error
}

func (f *fakePricingAPI) GetProductPrices(ctx context.Context, token string, productIDs []string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pricesErr != nil {
		return nil, f.pricesErr
	}
	prices := make(map[string]int64, len(productIDs))
	for _, id := range productIDs {
		if price, ok := f.prices[id]; ok {
			prices[id] = price
		}
	}
	return prices, nil
}

func (f *fakePricingAPI) ValidatePromotion(ctx context.Context, token string, payload *requests.ValidatePromotionPayload) (*responses.PromotionValidationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.promotionErr != nil {
		return nil, f.promotionErr
	}
	return f.promotion, nil
}

func (f *fakePricingAPI) setPrice(productID string, price int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[productID] = price
}

type fakeIdentityAPI struct {
	addresses []models.DeliveryAddress
}

func (f *fakeIdentityAPI) GetProfile(ctx context.Context, token string) (*models.User, error) {
	return &models.User{ID: "user-1"}, nil
}

func (f *fakeIdentityAPI) ListAddresses(ctx context.Context, token string) ([]models.DeliveryAddress, error) {
	return f.addresses, nil
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCheckoutCompleted(ctx context.Context, message *models.CheckoutCompletedMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishOrderAbandoned(ctx context.Context, message *models.OrderAbandonedMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *fakeStorage) UploadObject(ctx context.Context, bucketName, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[bucketName+"/"+objectKey] = data
	return objectKey, nil
}

type recordingAuditRepository struct {
	mu     sync.Mutex
	events []models.CheckoutEvent
}

func (r *recordingAuditRepository) Record(ctx context.Context, event *models.CheckoutEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *recordingAuditRepository) ListBySession(ctx context.Context, sessionID string) ([]models.CheckoutEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var events []models.CheckoutEvent
	for _, event := range r.events {
		if event.SessionID == sessionID {
			events = append(events, event)
		}
	}
	return events, nil
}

func (r *recordingAuditRepository) types() []models.CheckoutEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]models.CheckoutEventType, 0, len(r.events))
	for _, event := range r.events {
		types = append(types, event.Type)
	}
	return types
}

type checkoutHarness struct {
	usecase    *checkoutUsecase
	repository contracts.CheckoutSessionRepository
	orderAPI   *fakeOrderAPI
	pricingAPI *fakePricingAPI
	identity   *fakeIdentityAPI
	publisher  *MockEventPublisher
	storage    *fakeStorage
	audit      *recordingAuditRepository
	redis      *miniredis.Miniredis
	cfg        *config.InternalConfig
}

func newCheckoutHarness(t *testing.T) *checkoutHarness {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	redisRepo := redisRepository.NewRedisRepository(client)
	logger := zap.NewNop()

	h := &checkoutHarness{
		repository: NewCheckoutSessionRedisRepository(client, redisRepo),
		orderAPI:   &fakeOrderAPI{},
		pricingAPI: &fakePricingAPI{prices: map[string]int64{"P1": 15000, "P2": 8000, "PLAN-1": 49900}},
		identity: &fakeIdentityAPI{addresses: []models.DeliveryAddress{
			{ID: "addr-1", Line: "Calle 1 # 2-3", City: "Bogota", IsDefault: true},
		}},
		publisher: new(MockEventPublisher),
		storage:   &fakeStorage{},
		audit:     &recordingAuditRepository{},
		redis:     mr,
		cfg: &config.InternalConfig{
			App:        config.App{Env: "development"},
			Checkout:   config.AppCheckout{SessionTTLInMinutes: 60, LockTTLInSeconds: 30},
			Upstream:   config.AppUpstream{OrderAPITimeoutInSeconds: 10},
			Simulation: config.AppSimulation{PaymentSimulationEnabled: true},
			Minio:      config.AppMinio{ReceiptBucketName: "receipts", ReceiptMaxUploadSizeInMB: 1},
		},
	}

	usecase := NewCheckoutUsecase(
		h.repository,
		h.audit,
		locker.NewLockService(redisRepo, logger),
		h.orderAPI,
		h.pricingAPI,
		h.identity,
		h.publisher,
		h.storage,
		ratelimiter.NewAttemptLimiter(5, 5),
		metrics.NewCheckoutMetrics(prometheus.NewRegistry()),
		utils.NewMoneyFormatter("es-CO", "COP", "", 0),
		h.cfg,
		logger,
	)
	h.usecase = usecase.(*checkoutUsecase)
	return h
}

func command(view *responses.CheckoutSession) requests.CheckoutCommand {
	return requests.CheckoutCommand{SessionID: view.ID}
}

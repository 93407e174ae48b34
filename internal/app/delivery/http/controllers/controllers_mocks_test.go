package controllers

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"
)

type MockCheckoutUsecase struct {
	mock.Mock
}

func (m *MockCheckoutUsecase) session(args mock.Arguments) (*responses.CheckoutSession, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutUsecase) OpenSession(ctx context.Context, sc contracts.SessionContext, request *requests.OpenCheckoutSession) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) GetSession(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) DeleteSession(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) error {
	args := m.Called(ctx, sc, request)
	return args.Error(0)
}

func (m *MockCheckoutUsecase) ApplyCartAction(ctx context.Context, sc contracts.SessionContext, request *requests.CartAction) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) SyncPrices(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) ApplyPromotion(ctx context.Context, sc contracts.SessionContext, request *requests.ApplyPromotion) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) ClearPromotion(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) SelectAddress(ctx context.Context, sc contracts.SessionContext, request *requests.SelectAddress) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) SelectPaymentMethod(ctx context.Context, sc contracts.SessionContext, request *requests.SelectPaymentMethod) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) Next(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) Back(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) CreateOrder(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) ReportCardResult(ctx context.Context, sc contracts.SessionContext, request *requests.CardResult) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) ConfirmOnlineBanking(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) AcknowledgeInstructions(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) AttachTransferReceipt(ctx context.Context, sc contracts.SessionContext, request *requests.AttachTransferReceipt) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) SimulatePayment(ctx context.Context, sc contracts.SessionContext, request *requests.CheckoutCommand) (*responses.CheckoutSession, error) {
	return m.session(m.Called(ctx, sc, request))
}

func (m *MockCheckoutUsecase) ListAddresses(ctx context.Context, sc contracts.SessionContext) (*responses.DeliveryAddresses, error) {
	args := m.Called(ctx, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.DeliveryAddresses), args.Error(1)
}

type MockHistoryUsecase struct {
	mock.Mock
}

func (m *MockHistoryUsecase) ListPurchases(ctx context.Context, sc contracts.SessionContext, request *requests.HistoryPagination) (*responses.HistoryPage, error) {
	args := m.Called(ctx, sc, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.HistoryPage), args.Error(1)
}

func (m *MockHistoryUsecase) ListSubscriptions(ctx context.Context, sc contracts.SessionContext, request *requests.HistoryPagination) (*responses.HistoryPage, error) {
	args := m.Called(ctx, sc, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.HistoryPage), args.Error(1)
}

type stubSessionContext struct {
	user *models.User
}

func (s *stubSessionContext) CurrentUser() (*models.User, bool) { return s.user, s.user != nil }
func (s *stubSessionContext) IsAuthenticated() bool { return s.user != nil }
func (s *stubSessionContext) Refresh(ctx context.Context) error { return nil }
func (s *stubSessionContext) Invalidate() { s.user = nil }
func (s *stubSessionContext) Token() string { return "token" }

// withScope injects what RequestIDMiddleware and Authenticate would have set.
func withScope(sc contracts.SessionContext, next func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
		if sc != nil {
			ctx = context.WithValue(ctx, constvars.CONTEXT_SESSION_CONTEXT_KEY, sc)
		}
		next(w, r.WithContext(ctx))
	}
}

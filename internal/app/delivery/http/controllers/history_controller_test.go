package controllers

import (
	"checkout-service/internal/app/config"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/dto/requests"
	"checkout-service/internal/pkg/dto/responses"
	"checkout-service/internal/pkg/exceptions"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newHistoryTestRouter(usecase *MockHistoryUsecase) *chi.Mux {
	controller := NewHistoryController(zap.NewNop(), usecase, &config.InternalConfig{App: config.App{RequestTimeoutInSeconds: 5}})
	sc := &stubSessionContext{user: &models.User{ID: "u1"}}

	router := chi.NewRouter()
	router.Get("/history/purchases", withScope(sc, controller.ListPurchases))
	router.Get("/history/subscriptions", withScope(sc, controller.ListSubscriptions))
	return router
}

func TestHistoryController_ListPurchases(t *testing.T) {
	t.Run("Pagination Envelope", func(t *testing.T) {
		usecase := new(MockHistoryUsecase)
		usecase.On("ListPurchases", mock.Anything, mock.Anything, &requests.HistoryPagination{Limit: 2, Offset: 2}).
			Return(&responses.HistoryPage{
				Items:  json.RawMessage(`[{"id":"c"},{"id":"d"}]`),
				Total:  5,
				Limit:  2,
				Offset: 2,
			}, nil)

		router := newHistoryTestRouter(usecase)
		req := httptest.NewRequest(http.MethodGet, "/history/purchases?limit=2&offset=2", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		envelope := decodeEnvelope(t, rec.Body)
		assert.Len(t, envelope["data"], 2)
		pagination := envelope["pagination"].(map[string]interface{})
		assert.Equal(t, float64(5), pagination["total"])
		assert.Equal(t, "/history/purchases?limit=2&offset=4", pagination["next_url"])
		assert.Equal(t, "/history/purchases?limit=2&offset=0", pagination["prev_url"])
	})

	t.Run("Defaults When Query Is Empty", func(t *testing.T) {
		usecase := new(MockHistoryUsecase)
		usecase.On("ListPurchases", mock.Anything, mock.Anything, &requests.HistoryPagination{Limit: 10, Offset: 0}).
			Return(&responses.HistoryPage{Items: json.RawMessage(`[]`), Total: 0, Limit: 10}, nil)

		router := newHistoryTestRouter(usecase)
		req := httptest.NewRequest(http.MethodGet, "/history/purchases", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		usecase.AssertExpectations(t)
	})

	t.Run("Malformed Limit", func(t *testing.T) {
		usecase := new(MockHistoryUsecase)
		router := newHistoryTestRouter(usecase)
		req := httptest.NewRequest(http.MethodGet, "/history/purchases?limit=ten", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		usecase.AssertNotCalled(t, "ListPurchases", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHistoryController_ListSubscriptions(t *testing.T) {
	usecase := new(MockHistoryUsecase)
	usecase.On("ListSubscriptions", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, exceptions.ErrSessionInvalidated(errors.New("upstream 401")))

	router := newHistoryTestRouter(usecase)
	req := httptest.NewRequest(http.MethodGet, "/history/subscriptions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

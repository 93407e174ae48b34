package httpclient

import (
	"checkout-service/internal/app/config"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	return NewClient("test_api", baseURL, 2*time.Second,
		config.AppUpstream{},
		config.AppBreaker{MaxRequests: 1, OpenTimeoutInSeconds: 60, ConsecutiveFailures: 2},
		nil, zap.NewNop())
}

func TestClient_Do(t *testing.T) {
	t.Run("Success Forwards Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tkn", r.Header.Get(constvars.HeaderAuthorization))
			assert.Equal(t, constvars.MIMEApplicationJSON, r.Header.Get(constvars.HeaderContentType))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		response, err := client.Do(context.Background(), Request{
			Operation: "create",
			Method:    http.MethodPost,
			Path:      "/x",
			Token:     "tkn",
			Body:      map[string]string{"a": "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, response.StatusCode)

		var out struct {
			OK bool `json:"ok"`
		}
		require.NoError(t, client.DecodeJSON(response, &out))
		assert.True(t, out.OK)
	})

	t.Run("Client Error Keeps Status And Message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"mensaje":"Código no válido"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Do(context.Background(), Request{Method: http.MethodPost, Path: "/x"})
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusUnprocessableEntity, customErr.StatusCode)
		assert.Equal(t, "Código no válido", customErr.ClientMessage)
	})

	t.Run("Server Error Becomes Bad Gateway With Server Message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"Stock insuficiente para P1"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Do(context.Background(), Request{Method: http.MethodPost, Path: "/x"})
		assert.Equal(t, http.StatusBadGateway, exceptions.StatusCodeOf(err))
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, "Stock insuficiente para P1", customErr.ClientMessage)
	})

	t.Run("Server Error Without Message Uses Generic Text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`<html>oops</html>`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
		assert.Equal(t, http.StatusBadGateway, exceptions.StatusCodeOf(err))
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.ErrClientUpstreamUnavailable, customErr.ClientMessage)
	})

	t.Run("Breaker Opens And Fails Fast Without Retrying", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		for i := 0; i < 2; i++ {
			_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
			assert.Equal(t, http.StatusBadGateway, exceptions.StatusCodeOf(err))
		}

		_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
		assert.Equal(t, http.StatusServiceUnavailable, exceptions.StatusCodeOf(err))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "open breaker must not reach the server")
	})

	t.Run("Client Errors Do Not Trip Breaker", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		for i := 0; i < 4; i++ {
			_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
			assert.Equal(t, http.StatusNotFound, exceptions.StatusCodeOf(err))
		}
		assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	})

	t.Run("Deadline Becomes Gateway Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient("slow_api", server.URL, 50*time.Millisecond, config.AppUpstream{}, config.AppBreaker{}, nil, zap.NewNop())
		_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
		assert.Equal(t, http.StatusGatewayTimeout, exceptions.StatusCodeOf(err))
	})
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "a", ServerMessage([]byte(`{"message":"a"}`)))
	assert.Equal(t, "b", ServerMessage([]byte(`{"error":{"message":"b"}}`)))
	assert.Equal(t, "c", ServerMessage([]byte(`{"error":"c"}`)))
	assert.Empty(t, ServerMessage([]byte(`not json`)))
}

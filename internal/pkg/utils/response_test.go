package utils

import (
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildPaginationResponse(t *testing.T) {
	t.Run("First Page With Total", func(t *testing.T) {
		pagination := BuildPaginationResponse(25, 10, 0, 10, "/api/v1/history/purchases")
		assert.Equal(t, "/api/v1/history/purchases?limit=10&offset=10", pagination.NextURL)
		assert.Empty(t, pagination.PrevURL)
	})

	t.Run("Last Page With Total", func(t *testing.T) {
		pagination := BuildPaginationResponse(25, 10, 20, 5, "/h")
		assert.Empty(t, pagination.NextURL)
		assert.Equal(t, "/h?limit=10&offset=10", pagination.PrevURL)
	})

	t.Run("Unknown Total Uses Page Size", func(t *testing.T) {
		full := BuildPaginationResponse(-1, 10, 5, 10, "/h")
		assert.Equal(t, "/h?limit=10&offset=15", full.NextURL)
		assert.Equal(t, "/h?limit=10&offset=0", full.PrevURL)

		partial := BuildPaginationResponse(-1, 10, 0, 3, "/h")
		assert.Empty(t, partial.NextURL)
	})
}

func TestBuildErrorResponse(t *testing.T) {
	t.Run("Custom Error Keeps Status And Message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		BuildErrorResponse(zap.NewNop(), rec, exceptions.ErrCheckoutInFlight(nil, "abc"))

		assert.Equal(t, constvars.StatusConflict, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, constvars.ErrClientCheckoutInFlight, body["message"])
	})

	t.Run("Plain Error Is Internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		BuildErrorResponse(zap.NewNop(), rec, errors.New("boom"))

		assert.Equal(t, constvars.StatusInternalServerError, rec.Code)
	})
}

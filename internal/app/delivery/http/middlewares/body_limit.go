package middlewares

import (
	"checkout-service/internal/pkg/exceptions"
	"checkout-service/internal/pkg/utils"
	"errors"
	"net/http"
)

// BodyLimit caps request bodies at the configured size. Requests announcing a
// larger body are refused before any handler reads it.
func (m *Middlewares) BodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := m.bodyLimitInBytes()
		if r.ContentLength > limit {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrRequestBodyTooLarge(errors.New("content length over limit"), limit))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}

func (m *Middlewares) bodyLimitInBytes() int64 {
	megabytes := m.InternalConfig.App.RequestBodyLimitInMegabyte
	if megabytes <= 0 {
		megabytes = 8
	}
	return int64(megabytes) << 20
}

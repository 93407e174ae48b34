package middlewares

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"checkout-service/internal/pkg/utils"
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Authenticate turns the bearer token into a SessionContext and stores it in
// the request context. The token itself is forwarded to the upstream APIs.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(errors.New(constvars.ErrDevAuthTokenMissing)))
			return
		}
		if !strings.HasPrefix(authHeader, constvars.AuthorizationBearerPrefix) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalid(errors.New(constvars.ErrDevAuthTokenInvalid)))
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, constvars.AuthorizationBearerPrefix))

		sessionContext, err := m.SessionFactory.FromBearerToken(r.Context(), token)
		if err != nil {
			m.Log.Info("Middlewares.Authenticate rejected token",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		if user, ok := sessionContext.CurrentUser(); ok {
			m.Log.Debug("Middlewares.Authenticate session context ready",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingUserIDKey, user.ID),
			)
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_SESSION_CONTEXT_KEY, sessionContext)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionContextFromRequest returns the SessionContext stored by Authenticate.
func SessionContextFromRequest(r *http.Request) (contracts.SessionContext, bool) {
	sessionContext, ok := r.Context().Value(constvars.CONTEXT_SESSION_CONTEXT_KEY).(contracts.SessionContext)
	return sessionContext, ok && sessionContext != nil
}

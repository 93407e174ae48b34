package session

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"checkout-service/internal/pkg/utils"
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type sessionContextFactory struct {
	IdentityAPI contracts.IdentityAPIClient
	JWTSecret   string
	Log         *zap.Logger
	refreshes   *singleflight.Group
}

func NewSessionContextFactory(identityAPI contracts.IdentityAPIClient, jwtSecret string, logger *zap.Logger) contracts.SessionContextFactory {
	return &sessionContextFactory{
		IdentityAPI: identityAPI,
		JWTSecret:   jwtSecret,
		Log:         logger,
		refreshes:   new(singleflight.Group),
	}
}

// FromBearerToken verifies token locally and seeds the user from its claims.
// The Identity API is only contacted on Refresh.
func (f *sessionContextFactory) FromBearerToken(ctx context.Context, token string) (contracts.SessionContext, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, exceptions.ErrTokenMissing(errors.New(constvars.ErrDevAuthTokenMissing))
	}

	claims, err := utils.ParseAccessToken(token, f.JWTSecret)
	if err != nil {
		f.Log.Info("sessionContextFactory.FromBearerToken rejected token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrTokenInvalid(err)
	}

	return &sessionContext{
		token: token,
		user: &models.User{
			ID:    claims.Subject,
			Email: claims.Email,
			Name:  claims.Name,
		},
		factory: f,
	}, nil
}

type sessionContext struct {
	mu          sync.RWMutex
	token       string
	user        *models.User
	invalidated bool
	factory     *sessionContextFactory
}

func (s *sessionContext) CurrentUser() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.invalidated || s.user == nil {
		return nil, false
	}
	user := *s.user
	return &user, true
}

func (s *sessionContext) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

func (s *sessionContext) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.invalidated {
		return ""
	}
	return s.token
}

func (s *sessionContext) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = true
	s.user = nil
}

// Refresh reloads the user from the Identity API. Concurrent refreshes of the
// same token share one upstream call.
func (s *sessionContext) Refresh(ctx context.Context) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	token := s.Token()
	if token == "" {
		return exceptions.ErrSessionInvalidated(errors.New(constvars.ErrDevAuthSessionInvalidated))
	}

	result, err, shared := s.factory.refreshes.Do(token, func() (interface{}, error) {
		return s.factory.IdentityAPI.GetProfile(ctx, token)
	})
	if err != nil {
		if exceptions.StatusCodeOf(err) == constvars.StatusUnauthorized {
			s.factory.Log.Info("sessionContext.Refresh identity rejected token, invalidating session",
				zap.String(constvars.LoggingRequestIDKey, requestID),
			)
			s.Invalidate()
			return exceptions.ErrSessionInvalidated(err)
		}
		s.factory.Log.Error("sessionContext.Refresh error fetching profile",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	user := result.(*models.User)
	s.mu.Lock()
	refreshed := *user
	s.user = &refreshed
	s.mu.Unlock()

	s.factory.Log.Info("sessionContext.Refresh succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
		zap.Bool("shared", shared),
	)
	return nil
}

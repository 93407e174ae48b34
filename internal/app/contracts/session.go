package contracts

import (
	"checkout-service/internal/app/models"
	"context"
)

// SessionContext is the per-request view of the caller's identity. It is
// built by the authentication middleware and handed to usecases explicitly.
type SessionContext interface {
	CurrentUser() (*models.User, bool)
	IsAuthenticated() bool
	// Refresh reloads the user from the Identity API. A 401 invalidates the context.
	Refresh(ctx context.Context) error
	Invalidate()
	Token() string
}

type SessionContextFactory interface {
	FromBearerToken(ctx context.Context, token string) (SessionContext, error)
}

package middlewares

import (
	"checkout-service/internal/app/config"
	"checkout-service/internal/app/contracts"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	SessionFactory contracts.SessionContextFactory
	InternalConfig *config.InternalConfig
}

func NewMiddlewares(
	logger *zap.Logger,
	sessionFactory contracts.SessionContextFactory,
	internalConfig *config.InternalConfig,
) *Middlewares {
	return &Middlewares{
		Log:            logger,
		SessionFactory: sessionFactory,
		InternalConfig: internalConfig,
	}
}

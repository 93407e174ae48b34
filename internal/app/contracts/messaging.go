package contracts

import (
	"checkout-service/internal/app/models"
	"context"
)

type EventPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, message *models.CheckoutCompletedMessage) error
	PublishOrderAbandoned(ctx context.Context, message *models.OrderAbandonedMessage) error
}

package eventpublisher

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/exceptions"
	"context"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// publisher is the part of *amqp.Channel the event publisher uses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type eventPublisher struct {
	Channel publisher
	Queue   string
	Log     *zap.Logger
}

// NewEventPublisher opens a channel and declares the durable checkout events queue.
func NewEventPublisher(conn *amqp.Connection, queue string, logger *zap.Logger) (contracts.EventPublisher, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return nil, err
	}

	return newEventPublisher(channel, queue, logger), nil
}

func newEventPublisher(channel publisher, queue string, logger *zap.Logger) *eventPublisher {
	return &eventPublisher{
		Channel: channel,
		Queue:   queue,
		Log:     logger,
	}
}

func (p *eventPublisher) PublishCheckoutCompleted(ctx context.Context, message *models.CheckoutCompletedMessage) error {
	message.Event = constvars.EventCheckoutCompleted
	return p.publish(ctx, message.Event, message.SessionID, message)
}

func (p *eventPublisher) PublishOrderAbandoned(ctx context.Context, message *models.OrderAbandonedMessage) error {
	message.Event = constvars.EventCheckoutOrderAbandoned
	return p.publish(ctx, message.Event, message.SessionID, message)
}

func (p *eventPublisher) publish(ctx context.Context, event, sessionID string, payload interface{}) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.Log.Info("eventPublisher.publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueKey, p.Queue),
		zap.String("event", event),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	headers := amqp.Table{
		"message_type":     "JSON",
		"event":            event,
		"requeue_strategy": "DROP",
	}
	if requestID != "" {
		headers["request_id"] = requestID
	}

	message := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Priority:     0,
		Headers:      headers,
	}

	err = p.Channel.PublishWithContext(ctx, "", p.Queue, false, false, message)
	if err != nil {
		p.Log.Error("eventPublisher.publish error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueKey, p.Queue),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, p.Queue)
	}
	return nil
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pythonpro/coaching-backend/internal/usecase"
)

// Producer publishes post-commit notices. It implements
// usecase.NotificationPublisher; publishing happens outside the store
// transaction, so a broker outage can only cost a notification, never a
// committed conversion.
type Producer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *Producer {
	return &Producer{Ch: ch}
}

func (p *Producer) PublishNotice(ctx context.Context, n usecase.Notice) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshaling notice: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing notice: %w", err)
	}
	return nil
}

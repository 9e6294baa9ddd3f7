package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pythonpro/coaching-backend/internal/entity"
	"github.com/pythonpro/coaching-backend/internal/infra/http/middleware"
	"github.com/pythonpro/coaching-backend/internal/infra/notify"
	"github.com/pythonpro/coaching-backend/internal/usecase"
)

// Worker consumes notices and drives the dispatcher. Notification delivery
// is at-least-once: a redelivered notice just produces a duplicate message,
// which is an accepted cost.
type Worker struct {
	Channel    *amqp.Channel
	Dispatcher *notify.Dispatcher
}

func NewWorker(ch *amqp.Channel, dispatcher *notify.Dispatcher) *Worker {
	return &Worker{Channel: ch, Dispatcher: dispatcher}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("registering RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var n usecase.Notice
			if err := json.Unmarshal(d.Body, &n); err != nil {
				log.Printf("[WORKER] malformed notice, dead-lettering: %s", err)
				d.Nack(false, false)
				continue
			}

			if w.process(context.Background(), n) {
				d.Ack(false)
			} else {
				// Every channel failed outright; let the DLQ keep it.
				d.Nack(false, false)
			}
		}
	}()

	log.Printf("[WORKER] waiting for notices on %q", queueName)
	<-forever
}

// process fans one notice out to its channels and reports whether at least
// one delivery did not end in an error (mock counts as delivered).
func (w *Worker) process(ctx context.Context, n usecase.Notice) bool {
	params := map[string]string{
		"name":        n.Name,
		"email":       n.Email,
		"course":      n.CourseName,
		"batch_start": n.BatchStart,
		"timings":     n.Timings,
	}
	if n.Credential != "" {
		params["password"] = n.Credential
	}

	results := []notify.DeliveryResult{
		w.Dispatcher.Dispatch(ctx, entity.ChannelEmail, n.LeadID, n.Email, n.Kind, params),
	}
	if n.Phone != "" {
		results = append(results,
			w.Dispatcher.Dispatch(ctx, entity.ChannelWhatsApp, n.LeadID, n.Phone, n.Kind, params))
	}

	delivered := false
	for _, res := range results {
		middleware.RecordNotification(res.Channel, res.Status)
		if res.Status != notify.StatusError {
			delivered = true
		}
	}
	return delivered
}

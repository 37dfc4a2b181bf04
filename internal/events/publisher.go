// Package events публикует события учетных записей в очередь уведомлений.
// Публикация выполняется по принципу best effort: отказ брокера
// логируется и не ломает пользовательскую операцию.
package events

import (
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
	"github.com/magabrotheeeer/subscription-portal/internal/rabbitmq"
)

// Publisher отправляет события портала в exchange "notifications".
type Publisher struct {
	channel *amqp.Channel
	log     *slog.Logger
}

// NewPublisher создает новый экземпляр Publisher.
func NewPublisher(channel *amqp.Channel, log *slog.Logger) *Publisher {
	return &Publisher{
		channel: channel,
		log:     log,
	}
}

// UserRegistered публикует событие о регистрации пользователя.
func (p *Publisher) UserRegistered(username string) {
	p.publish(rabbitmq.KeyUserRegistered, models.NewRegisteredEvent(username))
}

// PurchaseCompleted публикует событие о покупке подписки.
func (p *Publisher) PurchaseCompleted(username, planCode string, sub models.Subscription) {
	p.publish(rabbitmq.KeyPurchaseCompleted, models.NewPurchaseEvent(username, planCode, sub))
}

func (p *Publisher) publish(routingKey string, event models.AccountEvent) {
	if err := rabbitmq.PublishJSON(p.channel, routingKey, event); err != nil {
		p.log.Error("failed to publish event",
			slog.String("routing_key", routingKey),
			sl.Err(err))
	}
}

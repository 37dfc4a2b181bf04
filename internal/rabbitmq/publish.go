package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishJSON сериализует payload в JSON и публикует его в exchange
// уведомлений с заданным ключом маршрутизации.
func PublishJSON(ch *amqp.Channel, routingKey string, payload any) error {
	const op = "rabbitmq.PublishJSON"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}
	if err = ch.Publish(Exchange, routingKey, false, false, publishing); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

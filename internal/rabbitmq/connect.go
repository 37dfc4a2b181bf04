package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Connect устанавливает соединение с RabbitMQ, повторяя попытки с паузой,
// пока брокер поднимается.
func Connect(url string, attempts int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err := amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if attempt < attempts {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("%s: after %d attempts: %w", op, attempts, lastErr)
}

// OpenChannel открывает канал, объявляет exchange и привязывает к нему
// очереди уведомлений.
func OpenChannel(conn *amqp.Connection, bindings []Binding) (*amqp.Channel, error) {
	const op = "rabbitmq.OpenChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: set qos: %w", op, err)
	}

	if err = ch.ExchangeDeclare(Exchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: declare exchange: %w", op, err)
	}

	for _, b := range bindings {
		if _, err = ch.QueueDeclare(b.Queue, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("%s: declare queue %s: %w", op, b.Queue, err)
		}
		if err = ch.QueueBind(b.Queue, b.Key, Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: bind queue %s to %s: %w", op, b.Queue, b.Key, err)
		}
	}

	return ch, nil
}

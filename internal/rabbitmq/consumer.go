package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
)

// Consume запускает чтение очереди. Каждое сообщение уходит в handler в
// отдельной горутине, одновременно обрабатывается не больше 10.
// Ошибка handler возвращает сообщение в очередь через Nack.
func Consume(ctx context.Context, ch *amqp.Channel, queue string, log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.Consume"

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, 10)
	go func() {
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(d.Body); err != nil {
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", slog.String("queue", queue), sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", slog.String("queue", queue), sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Package sender содержит приложение отправки email-уведомлений.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-portal/internal/config"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-portal/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/subscription-portal/internal/services/sender"
)

// App представляет приложение отправителя уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает новый экземпляр приложения отправителя.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.OpenChannel(conn, rabbitmq.NotificationBindings())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(cfg.NotifyEmail, logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run подписывается на очереди уведомлений и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	consumers := []struct {
		queue   string
		handler func([]byte) error
	}{
		{rabbitmq.QueueRegistered, a.senderService.SendInfoRegisteredUser},
		{rabbitmq.QueuePurchased, a.senderService.SendInfoPurchasedSubscription},
		{rabbitmq.QueueExpiring, a.senderService.SendInfoExpiringSubscription},
	}

	for _, c := range consumers {
		if err := rabbitmq.Consume(ctx, a.ch, c.queue, a.logger, c.handler); err != nil {
			a.logger.Error("failed to start consumer",
				slog.String("queue", c.queue),
				slog.Any("err", err))
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}

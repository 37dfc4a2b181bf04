// Package portal собирает веб-приложение портала: хранилище, сессии,
// очередь уведомлений, HTTP-сервер и маршруты.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-portal/internal/config"
	"github.com/magabrotheeeer/subscription-portal/internal/events"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-portal/internal/migrations"
	"github.com/magabrotheeeer/subscription-portal/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/subscription-portal/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-portal/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-portal/internal/session"
	"github.com/magabrotheeeer/subscription-portal/internal/storage/repository"
)

// App представляет веб-приложение портала.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает новый экземпляр приложения портала.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	sessions, err := session.InitServer(ctx, cfg.RedisConnection, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.OpenChannel(conn, rabbitmq.NotificationBindings())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	authService := authservice.NewAuthService(db)
	subscriptionService := subservice.NewSubscriptionService(db, logger)
	tokenMaker := jwt.NewMaker(cfg.DownloadSecretKey, cfg.DownloadTokenTTL)
	eventPublisher := events.NewPublisher(ch, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db, sessions, authService, subscriptionService, tokenMaker, eventPublisher)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		_ = a.db.DB.Close()
		return err
	}
}

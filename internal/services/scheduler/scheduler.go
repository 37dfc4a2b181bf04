// Package services содержит планировщик ежедневной проверки истекающих подписок.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
	"github.com/magabrotheeeer/subscription-portal/internal/rabbitmq"
)

// UserRepository описывает выборку пользователей с истекающей подпиской.
type UserRepository interface {
	FindSubscriptionExpiringToday(ctx context.Context) ([]*models.User, error)
}

// SchedulerService раз в сутки находит подписки, истекающие сегодня,
// и публикует события в очередь уведомлений.
type SchedulerService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo UserRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindExpiringSubscriptions запускает проверку сразу и далее каждые 24 часа.
func (s *SchedulerService) FindExpiringSubscriptions(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringSubscriptions(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindExpiringSubscriptions(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runFindExpiringSubscriptions(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting sweep for subscriptions expiring today")
	users, err := s.repo.FindSubscriptionExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", "count", len(users))
	for _, user := range users {
		event := models.NewExpiringEvent(user)
		if err = rabbitmq.PublishJSON(channel, rabbitmq.KeySubscriptionExpiring, event); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

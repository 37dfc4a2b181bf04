// Package services содержит бизнес-логику покупки подписки и проверки прав на скачивание.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-portal/internal/lib/expiry"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateSubscription обновляет состояние подписки пользователя.
	UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error
}

// SubscriptionService реализует бизнес-логику работы с подпиской пользователя.
type SubscriptionService struct {
	repo UserRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo UserRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Purchase записывает покупку плана: вычисляет новое состояние подписки
// и сохраняет его в строке пользователя. Оплаты здесь нет, фиксируется
// только право на скачивание.
//
// Неизвестный код плана — ошибка валидации (models.ErrUnknownPlan),
// молчаливого приведения к нулевому сроку нет.
func (s *SubscriptionService) Purchase(ctx context.Context, userUID, planCode string) (models.Subscription, error) {
	plan, err := models.ParsePlan(planCode)
	if err != nil {
		return models.Subscription{}, err
	}

	var sub models.Subscription
	if plan.IsLifetime() {
		sub = models.Lifetime()
	} else {
		sub = models.Expiring(expiry.Date(s.now(), plan.Months))
	}

	if err := s.repo.UpdateSubscription(ctx, userUID, sub); err != nil {
		return models.Subscription{}, err
	}

	s.log.Info("subscription purchased",
		slog.String("user_uid", userUID),
		slog.String("plan", plan.Code))

	return sub, nil
}

// Entitled сообщает, дает ли подписка право на скачивание прямо сейчас.
func (s *SubscriptionService) Entitled(sub models.Subscription) bool {
	return sub.Entitled(s.now())
}

// CurrentUser возвращает актуальную запись пользователя из хранилища.
func (s *SubscriptionService) CurrentUser(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userUID)
}

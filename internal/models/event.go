// Package models содержит события учетной записи для очереди уведомлений.
package models

import "time"

// AccountEvent описывает событие учетной записи, публикуемое в RabbitMQ.
// Хэш пароля в событие не попадает.
type AccountEvent struct {
	Username   string    `json:"username"`
	PlanCode   string    `json:"plan_code,omitempty"` // Код купленного плана, только для покупок
	Expiry     string    `json:"expiry,omitempty"`    // Дата окончания подписки в формате 2006-01-02
	OccurredAt time.Time `json:"occurred_at"`
}

// NewRegisteredEvent собирает событие о регистрации пользователя.
func NewRegisteredEvent(username string) AccountEvent {
	return AccountEvent{
		Username:   username,
		OccurredAt: time.Now().UTC(),
	}
}

// NewPurchaseEvent собирает событие о покупке плана.
func NewPurchaseEvent(username, planCode string, sub Subscription) AccountEvent {
	ev := AccountEvent{
		Username:   username,
		PlanCode:   planCode,
		OccurredAt: time.Now().UTC(),
	}
	if sub.Expiry != nil {
		ev.Expiry = sub.Expiry.Format("2006-01-02")
	}
	return ev
}

// NewExpiringEvent собирает событие об истекающей сегодня подписке.
func NewExpiringEvent(user *User) AccountEvent {
	ev := AccountEvent{
		Username:   user.Username,
		OccurredAt: time.Now().UTC(),
	}
	if user.Subscription.Expiry != nil {
		ev.Expiry = user.Subscription.Expiry.Format("2006-01-02")
	}
	return ev
}

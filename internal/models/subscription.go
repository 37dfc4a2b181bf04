// Package models содержит доменные структуры, описывающие подписку пользователя.
// Подписка хранится в явном тегированном виде: отсутствие подписки,
// подписка с датой окончания и бессрочная подписка — это три разных
// состояния, NULL в базе не несет двойного смысла.
package models

import "time"

// SubscriptionKind — дискриминатор состояния подписки.
type SubscriptionKind string

const (
	// KindNone — пользователь никогда не покупал подписку.
	KindNone SubscriptionKind = "none"
	// KindExpiring — подписка с датой окончания.
	KindExpiring SubscriptionKind = "expiring"
	// KindLifetime — бессрочная подписка.
	KindLifetime SubscriptionKind = "lifetime"
)

// Subscription представляет состояние подписки пользователя.
// Expiry заполнена только для Kind == KindExpiring.
type Subscription struct {
	Kind   SubscriptionKind
	Expiry *time.Time
}

// NoSubscription возвращает состояние "подписка не покупалась".
func NoSubscription() Subscription {
	return Subscription{Kind: KindNone}
}

// Expiring возвращает подписку, действующую до указанной даты включительно.
func Expiring(expiry time.Time) Subscription {
	return Subscription{Kind: KindExpiring, Expiry: &expiry}
}

// Lifetime возвращает бессрочную подписку.
func Lifetime() Subscription {
	return Subscription{Kind: KindLifetime}
}

// Entitled сообщает, дает ли подписка право на скачивание в момент now.
// Срок проверяется на каждом чтении: истекшая подписка равносильна её отсутствию.
func (s Subscription) Entitled(now time.Time) bool {
	switch s.Kind {
	case KindLifetime:
		return true
	case KindExpiring:
		if s.Expiry == nil {
			return false
		}
		// дата окончания включительно, сравниваем по календарному дню
		y1, m1, d1 := s.Expiry.Date()
		y2, m2, d2 := now.Date()
		expiry := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
		today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
		return !expiry.Before(today)
	default:
		return false
	}
}

// EffectiveStatus возвращает статус подписки для отображения: "active",
// если подписка дает право на скачивание, иначе "inactive".
func (s Subscription) EffectiveStatus(now time.Time) string {
	if s.Entitled(now) {
		return "active"
	}
	return "inactive"
}

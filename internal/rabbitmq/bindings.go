// Package rabbitmq содержит подключение к брокеру, объявление очередей
// уведомлений, публикацию и чтение сообщений.
package rabbitmq

// Exchange имя exchange, через который проходят все события аккаунтов.
const Exchange = "notifications"

// Binding связывает очередь с ключом маршрутизации.
type Binding struct {
	Queue string
	Key   string
}

// Очереди уведомлений портала.
const (
	QueueRegistered = "notifications.registered"
	QueuePurchased  = "notifications.purchased"
	QueueExpiring   = "notifications.expiring"
)

// Ключи маршрутизации событий.
const (
	KeyUserRegistered       = "user.registered"
	KeyPurchaseCompleted    = "purchase.completed"
	KeySubscriptionExpiring = "subscription.expiring"
)

// NotificationBindings возвращает привязки всех очередей уведомлений.
func NotificationBindings() []Binding {
	return []Binding{
		{Queue: QueueRegistered, Key: KeyUserRegistered},
		{Queue: QueuePurchased, Key: KeyPurchaseCompleted},
		{Queue: QueueExpiring, Key: KeySubscriptionExpiring},
	}
}

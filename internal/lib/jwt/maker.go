// Package jwt реализует выпуск и проверку подписанных токенов на скачивание.
//
// Страница аккаунта выдает пользователю с действующей подпиской
// короткоживущую подписанную ссылку; обработчик скачивания проверяет
// подпись и срок действия токена перед отдачей файла.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и проверки токенов на скачивание.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с указанными username и uid.
	GenerateToken(username, userUID string) (string, error)
	// ParseToken возвращает *DownloadClaims, если токен корректен.
	ParseToken(tokenStr string) (*DownloadClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// Package services содержит логику бизнес-уровня для регистрации и аутентификации пользователей.
package services

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/subscription-portal/internal/lib/password"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
	"github.com/magabrotheeeer/subscription-portal/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
// Текст единый: по нему нельзя понять, какое именно поле оказалось неверным.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию и проверку учетных данных.
type AuthService struct {
	users UserRepository
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository) *AuthService {
	return &AuthService{
		users: users,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Новый пользователь явно получает состояние "подписка не покупалась".
// Ошибка занятого имени приходит только из хранилища (уникальный индекс).
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Username:     username,
		PasswordHash: hashed,
		Subscription: models.NoSubscription(),
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и возвращает его учетную запись.
// Отсутствие пользователя и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Package models содержит доменную модель пользователя портала,
// включающую данные учётной записи, хэш пароля и состояние подписки.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя портала.
type User struct {
	UID          string       // Уникальный идентификатор пользователя
	Username     string       // Имя пользователя (уникальное)
	PasswordHash string       // Хэш пароля пользователя
	Subscription Subscription // Текущее состояние подписки
	CreatedAt    time.Time    // Дата регистрации
}

// Package session реализует серверные сессии в Redis.
//
// Сессия — единственный источник признака "пользователь вошел".
// В браузер уходит только непрозрачный идентификатор в cookie,
// данные сессии живут на сервере и истекают по TTL.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/subscription-portal/internal/config"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
)

// Data — данные сессии авторизованного пользователя.
// Снимок подписки обновляется при покупке, чтобы страница отражала
// изменение без повторного входа.
type Data struct {
	UserUID      string              `json:"user_uid"`
	Username     string              `json:"username"`
	Subscription models.Subscription `json:"subscription"`
}

// Store хранит сессии в Redis.
type Store struct {
	Db  *redis.Client
	ttl time.Duration
}

// InitServer подключается к Redis и возвращает хранилище сессий.
func InitServer(ctx context.Context, cfg config.RedisConnection, ttl time.Duration) (*Store, error) {
	const op = "session.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db, ttl: ttl}, nil
}

// Create сохраняет новую сессию и возвращает её идентификатор.
func (s *Store) Create(ctx context.Context, data Data) (string, error) {
	const op = "session.Create"
	id := uuid.New().String()
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Db.Set(ctx, sessionKey(id), jsonData, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Get возвращает данные сессии по идентификатору.
// Второе значение false означает, что сессии нет или она истекла.
func (s *Store) Get(ctx context.Context, id string) (*Data, bool, error) {
	const op = "session.Get"
	val, err := s.Db.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	var data Data
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &data, true, nil
}

// Update перезаписывает данные сессии, сохраняя оставшийся TTL.
func (s *Store) Update(ctx context.Context, id string, data Data) error {
	const op = "session.Update"
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Db.Set(ctx, sessionKey(id), jsonData, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete уничтожает сессию.
func (s *Store) Delete(ctx context.Context, id string) error {
	const op = "session.Delete"
	if err := s.Db.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/subscription-portal/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Состояние подписки записывается явно: новый пользователь получает
// subscription_kind = 'none', на значения по умолчанию в схеме ничего не полагается.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	kind, nullExpiry := subscriptionColumns(user.Subscription)

	var newUID string
	query := `INSERT INTO users (username, password_hash, subscription_kind, subscription_expiry)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, kind, nullExpiry).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, subscription_kind,
			      subscription_expiry, created_at
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, subscription_kind,
			      subscription_expiry, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// UpdateSubscription обновляет состояние подписки пользователя по его UID.
func (s *Storage) UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	kind, nullExpiry := subscriptionColumns(sub)

	query := `UPDATE users
			  SET subscription_kind = $1,
			      subscription_expiry = $2
			  WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, kind, nullExpiry, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// FindSubscriptionExpiringToday находит пользователей, чья подписка истекает сегодня.
func (s *Storage) FindSubscriptionExpiringToday(ctx context.Context) ([]*models.User, error) {
	const op = "storage.FindSubscriptionExpiringToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, subscription_kind,
			      subscription_expiry, created_at
			  FROM users
			  WHERE subscription_kind = 'expiring'
			    AND subscription_expiry::DATE = CURRENT_DATE;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		var kind string
		var nullExpiry sql.NullTime
		if err = rows.Scan(&u.UID, &u.Username, &u.PasswordHash,
			&kind, &nullExpiry, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.Subscription = subscriptionFromColumns(kind, nullExpiry)
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var kind string
	var nullExpiry sql.NullTime
	if err := row.Scan(&u.UID, &u.Username, &u.PasswordHash,
		&kind, &nullExpiry, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.Subscription = subscriptionFromColumns(kind, nullExpiry)
	return u, nil
}

// subscriptionColumns раскладывает подписку на пару колонок.
func subscriptionColumns(sub models.Subscription) (string, sql.NullTime) {
	var nullExpiry sql.NullTime
	if sub.Kind == models.KindExpiring && sub.Expiry != nil {
		nullExpiry = sql.NullTime{Time: *sub.Expiry, Valid: true}
	}
	return string(sub.Kind), nullExpiry
}

// subscriptionFromColumns собирает подписку из пары колонок.
func subscriptionFromColumns(kind string, nullExpiry sql.NullTime) models.Subscription {
	sub := models.Subscription{Kind: models.SubscriptionKind(kind)}
	if nullExpiry.Valid {
		expiry := nullExpiry.Time
		sub.Expiry = &expiry
	}
	return sub
}

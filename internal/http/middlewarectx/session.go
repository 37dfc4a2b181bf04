// Package middlewarectx содержит HTTP middleware портала.
//
// SessionMiddleware читает cookie с идентификатором сессии, загружает
// данные сессии из Redis и кладет их в контекст запроса. Анонимные
// запросы проходят дальше без сессии, решение о доступе принимает
// обработчик.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// SessionData — ключ данных сессии в контексте
	SessionData Key = "session_data"
	// SessionID — ключ идентификатора сессии в контексте
	SessionID Key = "session_id"
)

// SessionStore описывает чтение сессии по идентификатору.
type SessionStore interface {
	Get(ctx context.Context, id string) (*session.Data, bool, error)
}

// SessionMiddleware возвращает HTTP middleware, который загружает сессию
// по cookie. Просроченная или неизвестная сессия трактуется как её
// отсутствие, ошибка Redis логируется и также не прерывает запрос.
func SessionMiddleware(store SessionStore, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			id, ok := session.ReadCookie(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			data, found, err := store.Get(r.Context(), id)
			if err != nil {
				log.Error("failed to load session",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !found {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionData, data)
			ctx = context.WithValue(ctx, SessionID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext возвращает данные сессии текущего запроса.
func SessionFromContext(ctx context.Context) (*session.Data, bool) {
	data, ok := ctx.Value(SessionData).(*session.Data)
	return data, ok
}

// SessionIDFromContext возвращает идентификатор сессии текущего запроса.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionID).(string)
	return id, ok
}

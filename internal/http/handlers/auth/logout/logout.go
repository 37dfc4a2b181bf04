// Package logout реализует HTTP-обработчик выхода из кабинета.
// Сессия уничтожается в Redis, cookie гасится, после чего пользователь
// возвращается на страницу входа.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/session"
)

// SessionStore уничтожает серверные сессии.
type SessionStore interface {
	Delete(ctx context.Context, id string) error
}

// Handler обрабатывает выход пользователя.
type Handler struct {
	log      *slog.Logger
	sessions SessionStore
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions SessionStore) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
	}
}

// ServeHTTP уничтожает сессию и перенаправляет на страницу входа.
// Запрос без сессии не ошибка, cookie гасится в любом случае.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if id, ok := middlewarectx.SessionIDFromContext(r.Context()); ok {
		if err := h.sessions.Delete(r.Context(), id); err != nil {
			log.Error("failed to delete session", sl.Err(err))
		}
	}

	session.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

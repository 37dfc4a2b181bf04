// Package purchase реализует HTTP-обработчик покупки подписки.
//
// Покупка доступна только авторизованному пользователю. Новое состояние
// подписки сохраняется в базе и зеркалируется в сессию, чтобы кабинет
// отразил изменение без повторного входа.
package purchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
	"github.com/magabrotheeeer/subscription-portal/internal/session"
	"github.com/magabrotheeeer/subscription-portal/internal/web"
)

// Service описывает интерфейс бизнес-логики покупки.
type Service interface {
	Purchase(ctx context.Context, userUID, planCode string) (models.Subscription, error)
}

// SessionStore обновляет данные серверной сессии.
type SessionStore interface {
	Update(ctx context.Context, id string, data session.Data) error
}

// EventPublisher отправляет событие о покупке в очередь уведомлений.
type EventPublisher interface {
	PurchaseCompleted(username, planCode string, sub models.Subscription)
}

// Handler обрабатывает покупку подписки.
type Handler struct {
	log           *slog.Logger
	subscriptions Service
	sessions      SessionStore
	events        EventPublisher
	now           func() time.Time
}

// New создает новый экземпляр Handler. events может быть nil, тогда
// события покупки не публикуются.
func New(log *slog.Logger, subscriptions Service, sessions SessionStore, events EventPublisher) *Handler {
	return &Handler{
		log:           log,
		subscriptions: subscriptions,
		sessions:      sessions,
		events:        events,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ServeHTTP обрабатывает отправку формы покупки.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.purchase"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Info("purchase attempt without session")
		w.WriteHeader(http.StatusUnauthorized)
		_ = web.RenderAccount(w, web.AccountView{
			Errors: []string{"You must be logged in to make a purchase"},
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		h.renderAccount(w, data, []string{"Invalid form data"}, "")
		return
	}
	planCode := r.PostFormValue("subscription_type")

	sub, err := h.subscriptions.Purchase(r.Context(), data.UserUID, planCode)
	if err != nil {
		if errors.Is(err, models.ErrUnknownPlan) {
			log.Info("unknown plan code", slog.String("plan", planCode))
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.renderAccount(w, data, []string{"Unknown subscription type"}, "")
			return
		}
		log.Error("purchase failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		h.renderAccount(w, data, []string{"Purchase is temporarily unavailable. Please try again later."}, "")
		return
	}

	data.Subscription = sub
	if id, ok := middlewarectx.SessionIDFromContext(r.Context()); ok {
		if err := h.sessions.Update(r.Context(), id, *data); err != nil {
			// Сессия обновится при следующем входе, база уже содержит покупку.
			log.Error("failed to update session snapshot", sl.Err(err))
		}
	}

	if h.events != nil {
		h.events.PurchaseCompleted(data.Username, planCode, sub)
	}

	log.Info("purchase success",
		slog.String("username", data.Username),
		slog.String("plan", planCode))
	h.renderAccount(w, data, nil, "Purchase successful! Your subscription has been updated.")
}

func (h *Handler) renderAccount(w http.ResponseWriter, data *session.Data, errs []string, success string) {
	user := &models.User{
		Username:     data.Username,
		Subscription: data.Subscription,
	}
	view := web.NewAccountView(user, h.now())
	view.Errors = errs
	view.Success = success
	if err := web.RenderAccount(w, view); err != nil {
		h.log.Error("failed to render account page", sl.Err(err))
	}
}

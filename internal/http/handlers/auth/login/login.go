// Package login реализует HTTP-обработчик страницы входа и кабинета.
//
// GET без сессии отдает форму входа, с сессией — кабинет с актуальным
// состоянием подписки из базы. POST проверяет учетные данные и создает
// серверную сессию в Redis, в браузер уходит только cookie с её
// идентификатором.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
	auth "github.com/magabrotheeeer/subscription-portal/internal/services/auth"
	"github.com/magabrotheeeer/subscription-portal/internal/session"
	"github.com/magabrotheeeer/subscription-portal/internal/web"
)

// Form — входные данные формы входа.
type Form struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// UserProvider возвращает актуальную запись пользователя.
type UserProvider interface {
	CurrentUser(ctx context.Context, userUID string) (*models.User, error)
}

// SessionStore создает серверные сессии.
type SessionStore interface {
	Create(ctx context.Context, data session.Data) (string, error)
}

// Handler обрабатывает страницу входа и кабинет.
type Handler struct {
	log      *slog.Logger
	auth     Service
	users    UserProvider
	sessions SessionStore
	validate *validator.Validate
	now      func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, authService Service, users UserProvider, sessions SessionStore) *Handler {
	return &Handler{
		log:      log,
		auth:     authService,
		users:    users,
		sessions: sessions,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ShowPage отдает форму входа либо кабинет для авторизованного пользователя.
func (h *Handler) ShowPage(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login.ShowPage"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		if err := web.RenderAccount(w, web.AccountView{}); err != nil {
			log.Error("failed to render login page", sl.Err(err))
		}
		return
	}

	// Состояние подписки читается из базы, а не из снимка в сессии,
	// чтобы просроченная подписка сразу стала неактивной.
	user, err := h.users.CurrentUser(r.Context(), data.UserUID)
	if err != nil {
		log.Error("failed to load current user", sl.Err(err))
		session.ClearCookie(w)
		if err := web.RenderAccount(w, web.AccountView{}); err != nil {
			log.Error("failed to render login page", sl.Err(err))
		}
		return
	}

	if err := web.RenderAccount(w, web.NewAccountView(user, h.now())); err != nil {
		log.Error("failed to render account page", sl.Err(err))
	}
}

// Submit обрабатывает отправку формы входа.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login.Submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		_ = web.RenderAccount(w, web.AccountView{Errors: []string{"Invalid form data"}})
		return
	}

	form := Form{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	if err := h.validate.Struct(form); err != nil {
		log.Error("validation failed", sl.Err(err))
		_ = web.RenderAccount(w, web.AccountView{
			Errors:   []string{"Username and password are required"},
			Username: form.Username,
		})
		return
	}

	user, err := h.auth.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("invalid credentials", slog.String("username", form.Username))
			w.WriteHeader(http.StatusUnauthorized)
			_ = web.RenderAccount(w, web.AccountView{
				Errors:   []string{"Invalid username or password"},
				Username: form.Username,
			})
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = web.RenderAccount(w, web.AccountView{
			Errors:   []string{"Login is temporarily unavailable. Please try again later."},
			Username: form.Username,
		})
		return
	}

	sessionID, err := h.sessions.Create(r.Context(), session.Data{
		UserUID:      user.UID,
		Username:     user.Username,
		Subscription: user.Subscription,
	})
	if err != nil {
		log.Error("failed to create session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = web.RenderAccount(w, web.AccountView{
			Errors:   []string{"Login is temporarily unavailable. Please try again later."},
			Username: form.Username,
		})
		return
	}
	session.WriteCookie(w, sessionID)

	log.Info("login success", slog.String("username", form.Username))
	view := web.NewAccountView(user, h.now())
	view.Success = "Login successful!"
	_ = web.RenderAccount(w, view)
}

// Package register реализует HTTP-обработчик страницы регистрации.
//
// GET отдает форму, POST валидирует поля и создает пользователя.
// Занятость имени определяется только уникальным индексом базы,
// предварительной проверки SELECT нет.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-portal/internal/http/response"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/storage/repository"
	"github.com/magabrotheeeer/subscription-portal/internal/web"
)

// Form — входные данные формы регистрации.
type Form struct {
	Username        string `validate:"required,min=3,max=50"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, username, password string) (string, error)
}

// EventPublisher отправляет событие о регистрации в очередь уведомлений.
type EventPublisher interface {
	UserRegistered(username string)
}

// Handler обрабатывает страницу регистрации.
type Handler struct {
	log      *slog.Logger
	auth     Service
	events   EventPublisher
	validate *validator.Validate
}

// New создает новый экземпляр Handler. events может быть nil, тогда
// события регистрации не публикуются.
func New(log *slog.Logger, auth Service, events EventPublisher) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		events:   events,
		validate: validator.New(),
	}
}

// ShowForm отдает пустую форму регистрации.
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register.ShowForm"

	if err := web.RenderRegister(w, web.RegisterView{}); err != nil {
		h.log.Error("failed to render register page",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
	}
}

// Submit обрабатывает отправку формы регистрации.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register.Submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		_ = web.RenderRegister(w, web.RegisterView{Errors: []string{"Invalid form data"}})
		return
	}

	form := Form{
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	if err := h.validate.Struct(form); err != nil {
		log.Error("validation failed", sl.Err(err))
		_ = web.RenderRegister(w, web.RegisterView{
			Errors:   response.ValidationMessages(err.(validator.ValidationErrors)),
			Username: form.Username,
		})
		return
	}

	_, err := h.auth.Register(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			log.Info("username already taken", slog.String("username", form.Username))
			_ = web.RenderRegister(w, web.RegisterView{
				Errors:   []string{"Username already exists. Please choose a different one."},
				Username: form.Username,
			})
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = web.RenderRegister(w, web.RegisterView{
			Errors:   []string{"Registration is temporarily unavailable. Please try again later."},
			Username: form.Username,
		})
		return
	}

	if h.events != nil {
		h.events.UserRegistered(form.Username)
	}

	log.Info("register success", slog.String("username", form.Username))
	_ = web.RenderRegister(w, web.RegisterView{Success: "Registration successful!"})
}

// Package authenticate реализует JSON-эндпоинт проверки учетных данных
// для клиентского приложения.
//
// Коды ответов: 401 при неверной паре логин/пароль, 403 когда учетные
// данные верны, но подписка не дает права на доступ, 200 при активной
// подписке. Признак активности вычисляется на момент запроса.
package authenticate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-portal/internal/http/response"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
	auth "github.com/magabrotheeeer/subscription-portal/internal/services/auth"
)

// Request — структура входных данных для проверки учетных данных.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo — сведения о пользователе в ответе.
type UserInfo struct {
	Username string  `json:"username"`
	Status   string  `json:"status"`
	Expiry   *string `json:"expiry"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// Handler обрабатывает запросы проверки учетных данных.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
	now      func() time.Time
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:      log,
		auth:     authService,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ServeHTTP обрабатывает POST /api/v1/authenticate.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.authenticate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("username and password required"))
		return
	}

	user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("invalid credentials", slog.String("username", req.Username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid username or password"))
			return
		}
		log.Error("authentication failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("authentication is temporarily unavailable"))
		return
	}

	now := h.now()
	info := UserInfo{
		Username: user.Username,
		Status:   user.Subscription.EffectiveStatus(now),
	}
	if user.Subscription.Expiry != nil {
		expiry := user.Subscription.Expiry.Format("2006-01-02")
		info.Expiry = &expiry
	}

	data := map[string]any{
		"user":                info,
		"subscription_active": user.Subscription.Entitled(now),
	}

	if !user.Subscription.Entitled(now) {
		log.Info("subscription inactive or expired", slog.String("username", req.Username))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "subscription inactive or expired",
			Data:   data,
		})
		return
	}

	log.Info("authentication success", slog.String("username", req.Username))
	render.JSON(w, r, response.StatusOKWithData(data))
}

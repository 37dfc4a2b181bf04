// Package download реализует HTTP-обработчики скачивания клиента.
//
// Право на скачивание вычисляется по записи пользователя в базе на
// момент запроса, а не по снимку в сессии. Сама ссылка на файл содержит
// короткоживущий подписанный токен, так что её нельзя передать третьему
// лицу после истечения срока.
package download

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
)

// UserProvider возвращает актуальную запись пользователя.
type UserProvider interface {
	CurrentUser(ctx context.Context, userUID string) (*models.User, error)
}

// Handler обрабатывает выдачу клиента по подписке.
type Handler struct {
	log          *slog.Logger
	users        UserProvider
	tokens       jwt.Maker
	artifactPath string
	now          func() time.Time
}

// New создает новый экземпляр Handler. artifactPath — путь к файлу
// клиента на диске.
func New(log *slog.Logger, users UserProvider, tokens jwt.Maker, artifactPath string) *Handler {
	return &Handler{
		log:          log,
		users:        users,
		tokens:       tokens,
		artifactPath: artifactPath,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start проверяет право на скачивание и перенаправляет на подписанную
// ссылку с токеном.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.download.Start"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.users.CurrentUser(r.Context(), data.UserUID)
	if err != nil {
		log.Error("failed to load current user", sl.Err(err))
		http.Error(w, "download is temporarily unavailable", http.StatusInternalServerError)
		return
	}

	if !user.Subscription.Entitled(h.now()) {
		log.Info("download denied, subscription inactive", slog.String("username", user.Username))
		http.Error(w, "active subscription required", http.StatusForbidden)
		return
	}

	token, err := h.tokens.GenerateToken(user.Username, user.UID)
	if err != nil {
		log.Error("failed to generate download token", sl.Err(err))
		http.Error(w, "download is temporarily unavailable", http.StatusInternalServerError)
		return
	}

	log.Info("download token issued", slog.String("username", user.Username))
	http.Redirect(w, r, "/download/file?token="+url.QueryEscape(token), http.StatusSeeOther)
}

// ServeFile проверяет токен, повторно проверяет подписку и отдает файл.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.download.ServeFile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "missing download token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.ParseToken(tokenStr)
	if err != nil {
		log.Info("invalid or expired download token", sl.Err(err))
		http.Error(w, "invalid or expired download token", http.StatusUnauthorized)
		return
	}

	// Подписка могла истечь между выпуском токена и запросом файла.
	user, err := h.users.CurrentUser(r.Context(), claims.UserUID)
	if err != nil {
		log.Error("failed to load current user", sl.Err(err))
		http.Error(w, "download is temporarily unavailable", http.StatusInternalServerError)
		return
	}
	if !user.Subscription.Entitled(h.now()) {
		log.Info("download denied, subscription inactive", slog.String("username", user.Username))
		http.Error(w, "active subscription required", http.StatusForbidden)
		return
	}

	log.Info("serving software client", slog.String("username", user.Username))
	w.Header().Set("Content-Disposition", `attachment; filename="software-client"`)
	http.ServeFile(w, r, h.artifactPath)
}

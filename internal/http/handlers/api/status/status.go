// Package status реализует эндпоинт проверки состояния сервиса.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-portal/internal/http/response"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/sl"
)

// StorageChecker проверяет готовность базы данных.
type StorageChecker interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler обрабатывает запросы состояния сервиса.
type Handler struct {
	log     *slog.Logger
	storage StorageChecker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, storage StorageChecker) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP обрабатывает GET /api/v1/status.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.status"

	dbStatus := "connected"
	if err := h.storage.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database health check failed", slog.String("op", op), sl.Err(err))
		dbStatus = "disconnected"
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":    "online",
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}))
}

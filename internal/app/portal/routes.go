// Package portal предоставляет маршруты веб-приложения.
package portal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/subscription-portal/internal/config"
	"github.com/magabrotheeeer/subscription-portal/internal/events"
	"github.com/magabrotheeeer/subscription-portal/internal/http/handlers/api/authenticate"
	"github.com/magabrotheeeer/subscription-portal/internal/http/handlers/api/status"
	"github.com/magabrotheeeer/subscription-portal/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-portal/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/subscription-portal/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-portal/internal/http/handlers/download"
	"github.com/magabrotheeeer/subscription-portal/internal/http/handlers/subscription/purchase"
	"github.com/magabrotheeeer/subscription-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/subscription-portal/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-portal/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-portal/internal/session"
	"github.com/magabrotheeeer/subscription-portal/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	db *repository.Storage,
	sessions *session.Store,
	authService *authservice.AuthService,
	subscriptionService *subservice.SubscriptionService,
	tokenMaker jwt.Maker,
	eventPublisher *events.Publisher,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.RateLimitMiddleware(logger),
	)

	// Веб-страницы портала, сессия загружается из cookie
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(sessions, logger))

		registerHandler := register.New(logger, authService, eventPublisher)
		r.Get("/register", registerHandler.ShowForm)
		r.Post("/register", registerHandler.Submit)

		loginHandler := login.New(logger, authService, subscriptionService, sessions)
		r.Get("/login", loginHandler.ShowPage)
		r.Post("/login", loginHandler.Submit)

		r.Get("/logout", logout.New(logger, sessions).ServeHTTP)
		r.Post("/purchase", purchase.New(logger, subscriptionService, sessions, eventPublisher).ServeHTTP)

		downloadHandler := download.New(logger, subscriptionService, tokenMaker, cfg.ArtifactPath)
		r.Get("/download", downloadHandler.Start)
		r.Get("/download/file", downloadHandler.ServeFile)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		})
	})

	// JSON API для клиентского приложения
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/authenticate", authenticate.New(logger, authService).ServeHTTP)
		r.Get("/status", status.New(logger, db).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
}

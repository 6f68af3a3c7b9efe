// Package httpapi is the thin HTTP transport over the services. It parses
// requests, runs the session guard and maps sentinel errors to statuses; all
// policy lives below it.
package httpapi

import (
	"log/slog"
	"net/http"

	"workspace-chat/observability"
	"workspace-chat/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP routes to the services. Auth endpoints are
// public; everything else sits behind the session guard.
func NewRouter(
	authSvc services.IAuthService,
	sessionSvc services.ISessionService,
	messageSvc services.IMessageService,
	notificationSvc services.INotificationService,
	monitor *observability.Monitor,
	log *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	guard := NewSessionMiddleware(sessionSvc, log)

	NewAuthHandler(authSvc, log).RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/statsz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, monitor.Snapshot())
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireSession)
		NewMessageHandler(messageSvc, log).RegisterRoutes(r)
		NewNotificationHandler(notificationSvc, log).RegisterRoutes(r)
	})

	return r
}

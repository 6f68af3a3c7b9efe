package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"workspace-chat/domain"
	"workspace-chat/services"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

type NotificationHandler struct {
	notifications services.INotificationService
	log           *slog.Logger
}

func NewNotificationHandler(notifications services.INotificationService, log *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/unread-count", h.UnreadCount)
		r.Post("/read-all", h.MarkAllRead)
	})
}

type notificationResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	MessageID   string    `json:"messageId"`
	Kind        string    `json:"kind"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "session not found")
		return
	}

	notifications, err := h.notifications.List(r.Context(), principal.ID)
	if err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, lo.Map(notifications, func(n domain.Notification, _ int) notificationResponse {
		return notificationResponse{
			ID:          n.ID.String(),
			WorkspaceID: n.WorkspaceID.String(),
			MessageID:   n.MessageID.String(),
			Kind:        string(n.Kind),
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		}
	}))
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "session not found")
		return
	}

	count, err := h.notifications.CountUnread(r.Context(), principal.ID)
	if err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "session not found")
		return
	}

	if err := h.notifications.MarkAllRead(r.Context(), principal.ID); err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"workspace-chat/domain"
	"workspace-chat/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type MessageHandler struct {
	messages services.IMessageService
	validate *validator.Validate
	log      *slog.Logger
}

func NewMessageHandler(messages services.IMessageService, log *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, validate: validator.New(), log: log}
}

func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Route("/workspace/{workspaceID}/messages", func(r chi.Router) {
		r.Post("/", h.Send)
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Put("/{messageID}", h.Edit)
		r.Delete("/{messageID}", h.Delete)
	})
}

type messageContentRequest struct {
	Content string `json:"content" validate:"required"`
}

type messageResponse struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspaceId"`
	SenderID    string     `json:"senderId"`
	Content     string     `json:"content"`
	Mentions    []string   `json:"mentions"`
	Edited      bool       `json:"edited"`
	Deleted     bool       `json:"deleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	principal, workspaceID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	req, ok := h.contentRequest(w, r)
	if !ok {
		return
	}

	message, err := h.messages.Send(r.Context(), domain.SendMessageCommand{
		SenderID:    principal.ID,
		WorkspaceID: workspaceID,
		Content:     req.Content,
	})
	if err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, toMessageResponse(message))
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, workspaceID, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	messages, err := h.messages.List(r.Context(), domain.ListMessagesCommand{
		ReaderID:    principal.ID,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) messageResponse {
		return toMessageResponse(m)
	}))
}

func (h *MessageHandler) Search(w http.ResponseWriter, r *http.Request) {
	principal, workspaceID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	terms := r.URL.Query().Get("q")
	if terms == "" {
		respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := h.messages.Search(r.Context(), domain.SearchMessagesCommand{
		ReaderID:    principal.ID,
		WorkspaceID: workspaceID,
		Terms:       terms,
		Limit:       limit,
	})
	if err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) messageResponse {
		return toMessageResponse(m)
	}))
}

func (h *MessageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	principal, workspaceID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid message id")
		return
	}
	req, ok := h.contentRequest(w, r)
	if !ok {
		return
	}

	message, err := h.messages.Edit(r.Context(), domain.EditMessageCommand{
		UserID:      principal.ID,
		WorkspaceID: workspaceID,
		MessageID:   messageID,
		Content:     req.Content,
	})
	if err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toMessageResponse(message))
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, workspaceID, ok := h.requestScope(w, r)
	if !ok {
		return
	}
	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	message, err := h.messages.Delete(r.Context(), domain.DeleteMessageCommand{
		UserID:      principal.ID,
		WorkspaceID: workspaceID,
		MessageID:   messageID,
	})
	if err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, toMessageResponse(message))
}

func (h *MessageHandler) requestScope(w http.ResponseWriter, r *http.Request) (domain.Principal, uuid.UUID, bool) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "session not found")
		return domain.Principal{}, uuid.Nil, false
	}
	workspaceID, err := uuid.Parse(chi.URLParam(r, "workspaceID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid workspace id")
		return domain.Principal{}, uuid.Nil, false
	}
	return principal, workspaceID, true
}

func (h *MessageHandler) contentRequest(w http.ResponseWriter, r *http.Request) (messageContentRequest, bool) {
	var req messageContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "message content is required")
		return req, false
	}
	return req, true
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:          m.ID.String(),
		WorkspaceID: m.WorkspaceID.String(),
		SenderID:    m.SenderID.String(),
		Content:     m.Content,
		Mentions: lo.Map(m.Mentions, func(id uuid.UUID, _ int) string {
			return id.String()
		}),
		Edited:    m.Edited,
		Deleted:   m.Deleted,
		CreatedAt: m.CreatedAt,
		DeletedAt: m.DeletedAt,
	}
}

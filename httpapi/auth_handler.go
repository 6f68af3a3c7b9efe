package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"workspace-chat/services"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	auth services.IAuthService
	log  *slog.Logger
}

func NewAuthHandler(auth services.IAuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, token, err := h.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{
		UserID: principal.ID.String(),
		Email:  principal.Email,
		Name:   principal.Name,
		Token:  token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{
		UserID: principal.ID.String(),
		Email:  principal.Email,
		Name:   principal.Name,
		Token:  token,
	})
}

// Logout clears the session. It answers 200 even when no session existed,
// logout is idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), sessionToken(r)); err != nil {
		respondDomainError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

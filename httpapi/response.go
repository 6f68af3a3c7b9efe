package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"workspace-chat/errors"

	"github.com/go-playground/validator/v10"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps sentinel errors to HTTP statuses. Authorization
// and not-found failures surface verbatim; anything unexpected becomes an
// opaque 500 with the detail kept in the log.
func respondDomainError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case stderrors.Is(err, errors.ErrSessionNotFound),
		stderrors.Is(err, errors.ErrInvalidSession),
		stderrors.Is(err, errors.ErrNotMember),
		stderrors.Is(err, errors.ErrNotSender),
		stderrors.Is(err, errors.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case stderrors.Is(err, errors.ErrMessageNotFound),
		stderrors.Is(err, errors.ErrWorkspaceNotFound),
		stderrors.Is(err, errors.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case stderrors.Is(err, errors.ErrEmptyContent),
		stderrors.Is(err, errors.ErrContentNotText),
		stderrors.Is(err, errors.ErrContentTooLong),
		stderrors.Is(err, errors.ErrInvalidPassword),
		stderrors.Is(err, errors.ErrUserAlreadyExists):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		var validationErrs validator.ValidationErrors
		if stderrors.As(err, &validationErrs) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

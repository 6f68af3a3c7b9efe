//go:generate go run go.uber.org/mock/mockgen -source=session_service.go -destination=../mocks/mock_session_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"time"

	"workspace-chat/auth"
	"workspace-chat/domain"
	"workspace-chat/errors"
	"workspace-chat/repositories"

	"github.com/google/uuid"
)

type ISessionService interface {
	Issue(ctx context.Context, principal domain.Principal) (string, error)
	Validate(ctx context.Context, token string) (domain.Principal, error)
	Touch(ctx context.Context, token string) error
	Clear(ctx context.Context, token string) error
}

// SessionService is the guard in front of every core operation. A request
// only reaches the message or notification services after Validate yields a
// well-formed principal.
type SessionService struct {
	sessions repositories.ISessionRepository
	tokenTTL time.Duration
	log      *slog.Logger
}

func NewSessionService(sessions repositories.ISessionRepository, tokenTTL time.Duration, log *slog.Logger) *SessionService {
	return &SessionService{sessions: sessions, tokenTTL: tokenTTL, log: log}
}

// Issue creates a session record for the principal and returns the signed
// token referencing it.
func (s *SessionService) Issue(ctx context.Context, principal domain.Principal) (string, error) {
	sessionID := uuid.New()
	if err := s.sessions.Put(sessionID, principal); err != nil {
		return "", err
	}
	token, err := auth.GenerateToken(sessionID, s.tokenTTL)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return token, nil
}

// Validate resolves a token to a live principal.
//
//   - no token, or a token that does not verify: ErrSessionNotFound;
//   - a verified token whose record is gone or whose principal is missing
//     its identity fields: ErrInvalidSession.
//
// Invalid paths never destroy the session record. A transient or racy state
// must not forcibly log out a client that might still be mid-login; only an
// explicit Clear removes the record.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, errors.ErrSessionNotFound
	}
	sessionID, err := auth.ValidateToken(token)
	if err != nil {
		return domain.Principal{}, errors.ErrSessionNotFound
	}

	principal, err := s.sessions.Get(sessionID)
	if err != nil {
		return domain.Principal{}, errors.ErrInvalidSession
	}
	if !principal.WellFormed() {
		return domain.Principal{}, errors.ErrInvalidSession
	}
	return principal, nil
}

// Touch resets the session's expiry window. Activity-driven extension is
// best-effort; callers log a failure instead of failing the request.
func (s *SessionService) Touch(ctx context.Context, token string) error {
	sessionID, err := auth.ValidateToken(token)
	if err != nil {
		return errors.ErrSessionNotFound
	}
	return s.sessions.Touch(sessionID)
}

// Clear destroys the session record (logout). It resolves successfully even
// when no session exists; clearing twice is fine.
func (s *SessionService) Clear(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionID, err := auth.ValidateToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(sessionID)
}

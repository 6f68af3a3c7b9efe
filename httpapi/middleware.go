package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"workspace-chat/domain"
	"workspace-chat/services"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext returns the authenticated principal injected by the
// session middleware.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(domain.Principal)
	return principal, ok
}

// SessionMiddleware is the session guard at the transport boundary. Every
// protected route runs through RequireSession before any service is reached.
type SessionMiddleware struct {
	sessions services.ISessionService
	log      *slog.Logger
}

func NewSessionMiddleware(sessions services.ISessionService, log *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, log: log}
}

// RequireSession validates the request's session token, injects the
// principal into the context and extends the session's expiry window. An
// invalid session yields 401 without destroying the record; a client that is
// mid-login must not be forcibly logged out by a transient state.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)

		principal, err := m.sessions.Validate(r.Context(), token)
		if err != nil {
			respondDomainError(w, m.log, err)
			return
		}

		// Activity resets the expiry window; failure to extend is not a
		// reason to fail the request itself.
		if err := m.sessions.Touch(r.Context(), token); err != nil {
			m.log.Warn("Session extension failed", "error", err)
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionToken reads the bearer token, falling back to the session cookie
// for browser clients.
func sessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return ""
}

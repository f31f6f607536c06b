package http

import (
	"net/http"
	"strings"

	"facility-admin-backend/internal/config"
	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags the request and its logger with an id, reusing a valid
// incoming X-Request-ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		l := logger.Get().With("request_id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(logger.IntoContext(r.Context(), l)))
	})
}

// Recover turns a panicking handler into a 500 {error} response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Handler panicked", "panic", rec)
				writeError(w, r, domain.NewPersistenceError("Internal error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Authenticator resolves the caller's profile for routes that need a session.
type Authenticator struct {
	sessions   service.SessionService
	cookieName string
}

func NewAuthenticator(sessions service.SessionService, cookieName string) *Authenticator {
	return &Authenticator{sessions: sessions, cookieName: cookieName}
}

// Middleware looks up the matched route's security level by route name.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		if config.GetSecurityLevel(name) == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		actor, err := a.sessions.Authenticate(r.Context(), a.extractToken(r))
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := ContextWithActor(r.Context(), actor)
		ctx = logger.IntoContext(ctx, logger.FromContext(ctx).With("actor_id", actor.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken prefers the Authorization header over the session cookie.
func (a *Authenticator) extractToken(r *http.Request) string {
	if token, ok := bearerToken(r); ok {
		return token
	}
	if cookie, err := r.Cookie(a.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:]), true
	}
	return "", false
}

// CSRF protects cookie-authenticated form posts. Requests carrying a bearer
// token are not sent by browsers on their own and are exempt.
func CSRF(cfg config.ServerConfig) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		[]byte(cfg.CSRFKey),
		csrf.Secure(cfg.CSRFSecure),
		csrf.Path("/"),
		csrf.TrustedOrigins(cfg.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.WarnContext(r.Context(), "CSRF check failed", "reason", csrf.FailureReason(r))
			writeError(w, r, domain.NewForbiddenError("Invalid or missing CSRF token."))
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := bearerToken(r); ok {
				next.ServeHTTP(w, r)
				return
			}
			if !cfg.CSRFSecure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

package adapthttp

import (
	"context"
	"net/http"
	"time"

	"accounts/internal/app"
	"accounts/internal/domain"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// requireAuth extracts the session token from the accessToken cookie,
// validates it, and attaches the decoded claims to the request context.
// A missing token is 401; an invalid or expired one is 403.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized. Access token is invalid")
			return
		}

		claims, err := s.tokens.Validate(cookie.Value)
		if err != nil {
			writeMessage(w, http.StatusForbidden, "Invalid or expired token.")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// requireRole gates a handler on an exact role match. It must run after
// requireAuth; roles are disjoint labels, so ADMIN does not pass a
// VIEWER-only check.
func (s *Server) requireRole(role domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil {
			writeMessage(w, http.StatusForbidden, "Unauthorized: Role information missing")
			return
		}
		if claims.Role != role {
			writeMessage(w, http.StatusForbidden, "Unauthorized: Insufficient permissions")
			return
		}
		next(w, r)
	}
}

// claimsFrom returns the decoded token claims attached by requireAuth, or nil.
func claimsFrom(r *http.Request) *app.Claims {
	claims, _ := r.Context().Value(claimsContextKey).(*app.Claims)
	return claims
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
